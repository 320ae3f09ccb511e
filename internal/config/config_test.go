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

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "planora_dev", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenValidity)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, "planora-note-images", cfg.S3.Bucket)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("JWT_TOKEN_VALIDITY", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DSN(), "port=6543")
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "super-secret", cfg.Auth.Secret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenValidity)
}

func TestGetEnvInt_IgnoresGarbage(t *testing.T) {
	t.Setenv("PG_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}
