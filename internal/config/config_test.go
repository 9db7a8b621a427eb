package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.BookingTimeout)
	assert.Equal(t, 10*time.Second, cfg.EmailTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "Personal Styling", cfg.ServiceName)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.EmailJSEnabled())
	assert.False(t, cfg.SMSEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("BOOKING_TIMEOUT", "12s")
	t.Setenv("EMAILJS_SERVICE_ID", "svc")
	t.Setenv("EMAILJS_TEMPLATE_ID", "tpl")
	t.Setenv("EMAILJS_PUBLIC_KEY", "key")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 12*time.Second, cfg.BookingTimeout)
	assert.True(t, cfg.EmailJSEnabled())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
