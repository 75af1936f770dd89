package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goclean-be-svc/internal/models"
)

func newAuthService(t *testing.T) (*fixture, AuthService) {
	t.Helper()
	f := newFixture(t, nil)
	return f, NewAuthService(f.userRepo, "test-secret", time.Hour, f.log)
}

func TestAuthService_Register(t *testing.T) {
	f, svc := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{
		Name:      " Sari ",
		Email:     "Sari@Example.com ",
		Password:  "rahasia123",
		Role:      models.RoleUser,
		Kecamatan: "Tebet",
	})
	require.NoError(t, err)
	assert.Equal(t, "sari@example.com", user.Email)
	assert.Equal(t, "Sari", user.Name)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "rahasia123", user.PasswordHash)
	assert.NotEmpty(t, user.DocumentID)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(&RegisterRequest{Name: "x", Email: "sari@example.com", Password: "rahasia123", Role: models.RoleUser})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("admin cannot self-register", func(t *testing.T) {
		_, err := svc.Register(&RegisterRequest{Name: "x", Email: "x@example.com", Password: "rahasia123", Role: models.RoleAdmin})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("tps needs a profile", func(t *testing.T) {
		_, err := svc.Register(&RegisterRequest{Name: "x", Email: "tps@example.com", Password: "rahasia123", Role: models.RoleTPS})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("tps starts unverified", func(t *testing.T) {
		tpsUser, err := svc.Register(&RegisterRequest{
			Name:      "Budi",
			Email:     "tps@example.com",
			Password:  "rahasia123",
			Role:      models.RoleTPS,
			Kecamatan: "Tebet",
			TPS:       &TPSRegistration{Name: "TPS Manggarai", Latitude: -6.21, Longitude: 106.84},
		})
		require.NoError(t, err)

		profile, err := f.tpsRepo.GetByUserID(tpsUser.ID)
		require.NoError(t, err)
		assert.False(t, profile.IsVerified)
		assert.True(t, profile.IsOpen)
		assert.Equal(t, "Tebet", profile.Kecamatan)
	})
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	f, svc := newAuthService(t)

	_, err := svc.Register(&RegisterRequest{Name: "Sari", Email: "sari@example.com", Password: "rahasia123", Role: models.RoleUser})
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Email: "sari@example.com", Password: "salah"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "rahasia123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	login, err := svc.Login(&LoginRequest{Email: "SARI@example.com", Password: "rahasia123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "sari@example.com", login.User.Email)

	actor, err := svc.Authenticate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, actor.UserID)
	assert.Equal(t, models.RoleUser, actor.Role)
	assert.Zero(t, actor.TPSID)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Authenticate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(f.userRepo, "other-secret", time.Hour, f.log)
		_, err := other.Authenticate(login.Token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewAuthService(f.userRepo, "test-secret", time.Hour, f.log).(*authService)
		expired.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
		_, err := expired.Authenticate(login.Token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, f.userRepo.Update(login.User.ID, map[string]interface{}{"is_active": false}))

		_, err := svc.Authenticate(login.Token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Login(&LoginRequest{Email: "sari@example.com", Password: "rahasia123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_AuthenticateResolvesTPS(t *testing.T) {
	f, svc := newAuthService(t)
	tps := f.tps(t, "tps@example.com", "Tebet", true)

	user, err := f.userRepo.GetByID(tps.UserID)
	require.NoError(t, err)
	token, _, err := svc.(*authService).issueToken(user)
	require.NoError(t, err)

	actor, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, tps.TPSID, actor.TPSID)
	assert.True(t, actor.IsTPS())
}

func TestAuthService_ProfileAndPassword(t *testing.T) {
	_, svc := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{Name: "Sari", Email: "sari@example.com", Password: "rahasia123", Role: models.RoleUser})
	require.NoError(t, err)

	name := "Sari W."
	kecamatan := "Menteng"
	updated, err := svc.UpdateProfile(user.ID, &UpdateProfileRequest{Name: &name, Kecamatan: &kecamatan})
	require.NoError(t, err)
	assert.Equal(t, "Sari W.", updated.Name)
	assert.Equal(t, "Menteng", updated.Kecamatan)

	blank := "  "
	_, err = svc.UpdateProfile(user.ID, &UpdateProfileRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "salah", NewPassword: "lebihrahasia456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "rahasia123", NewPassword: "lebihrahasia456"}))

	_, err = svc.Login(&LoginRequest{Email: "sari@example.com", Password: "rahasia123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(&LoginRequest{Email: "sari@example.com", Password: "lebihrahasia456"})
	assert.NoError(t, err)
}

func TestAuthService_CreateAdmin(t *testing.T) {
	_, svc := newAuthService(t)

	admin, err := svc.CreateAdmin("Admin", "admin@goclean.id", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = svc.CreateAdmin("Admin", "admin@goclean.id", "rahasia123")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.CreateAdmin("Admin", "short@goclean.id", "123")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
