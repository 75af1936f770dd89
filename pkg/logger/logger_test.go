package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("parses level", func(t *testing.T) {
		l := NewLogger("warn", "json")
		assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		l := NewLogger("loud", "json")
		assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	})

	t.Run("text format", func(t *testing.T) {
		l := NewLogger("debug", "text")
		_, ok := l.Formatter.(*logrus.TextFormatter)
		assert.True(t, ok)
	})
}

func TestLogger_WithFields(t *testing.T) {
	l := NewLogger("info", "json")
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.WithFields(map[string]interface{}{"pickup_id": 7, "status": "ACCEPTED"}).Info("transition")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "transition", entry["msg"])
	assert.Equal(t, float64(7), entry["pickup_id"])
	assert.Equal(t, "ACCEPTED", entry["status"])
}
