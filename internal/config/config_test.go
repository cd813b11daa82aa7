package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("AUTH_COOKIE_SECURE", "")
	t.Setenv("HTTP_ADDR", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.False(t, cfg.AuthCookieSecure)
	assert.True(t, cfg.AuthCSRFEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadProductionForcesSecureCookie(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("AUTH_COOKIE_SECURE", "false")
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("DATABASE_MAX_OPEN_CONN", "not-a-number")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.AuthCookieSecure)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 20, cfg.DBMaxOpenConn)
}
