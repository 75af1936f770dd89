package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("JWT_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxSizeBytes)
	assert.True(t, cfg.Scheduler.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_LOCATION_TTL", "2m")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("PICKUP_MAX_PENDING_AGE", "6h")
	t.Setenv("UPLOAD_MAX_SIZE_MB", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Redis.LocationTTL)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 6*time.Hour, cfg.Scheduler.PickupMaxPendingAge)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxSizeBytes)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("JWT_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		JWT:       JWTConfig{Secret: "s", TTL: time.Hour},
		Scheduler: SchedulerConfig{PickupMaxPendingAge: time.Hour},
		Upload:    UploadConfig{MaxSizeBytes: 1},
	}
	require.NoError(t, cfg.Validate())

	cfg.JWT.Secret = " "
	assert.Error(t, cfg.Validate())
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "goclean", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=goclean sslmode=disable TimeZone=UTC", d.GetDSN())
}

func TestCORSConfig_Origins(t *testing.T) {
	c := CORSConfig{AllowedOrigins: "http://a.test, ,http://b.test "}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.Origins())
}
