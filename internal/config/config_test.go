package config_test

import (
	"testing"
	"time"

	"sweetshop/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test_secret")
	t.Setenv("PORT", "")
	t.Setenv("ALGORITHM", "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test_secret", cfg.JWTSecret)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_CustomTTL(t *testing.T) {
	t.Setenv("SECRET_KEY", "test_secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "60")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("SECRET_KEY", "test_secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "sixty")

	_, err := config.Load()
	assert.Error(t, err)
}
