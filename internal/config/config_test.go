package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("BANANA_TELEGRAM_TOKEN", "test-token")
	t.Setenv("BANANA_AI_API_KEY", "test-key")
	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoad_RequiresToken(t *testing.T) {
	t.Setenv("BANANA_TELEGRAM_TOKEN", "")
	t.Setenv("BANANA_AI_API_KEY", "test-key")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram token")
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("BANANA_TELEGRAM_TOKEN", "test-token")
	t.Setenv("BANANA_AI_API_KEY", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadTestConfig(t)

	assert.Equal(t, "test-token", cfg.Telegram().Token)
	assert.Equal(t, "test-key", cfg.AI().APIKey)
	assert.Equal(t, 90*time.Second, cfg.AI().RequestTimeout)
	assert.False(t, cfg.AI().PolicyStopsCascade)
	assert.Equal(t, int32(1024), cfg.AI().ThinkingBudget)
	assert.Equal(t, "en", cfg.Global().InterfaceLanguage)
	assert.Equal(t, "memory", cfg.Storage().Backend())
	assert.Equal(t, 16, cfg.Queue().Buffer)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BANANA_TELEGRAM_TOKEN", "test-token")
	t.Setenv("BANANA_AI_API_KEY", "test-key")
	t.Setenv("BANANA_LOGGING_LEVEL", "debug")
	t.Setenv("BANANA_AI_POLICY_STOPS_CASCADE", "true")
	t.Setenv("BANANA_STORAGE_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log().Level())
	assert.True(t, cfg.AI().PolicyStopsCascade)
	assert.Equal(t, "redis", cfg.Storage().Backend())
}

func TestLoad_AllowedUsersFromEnv(t *testing.T) {
	t.Setenv("BANANA_TELEGRAM_TOKEN", "test-token")
	t.Setenv("BANANA_AI_API_KEY", "test-key")
	t.Setenv("BANANA_TELEGRAM_ALLOWED_USERS", "123, 456")

	cfg, err := Load()
	require.NoError(t, err)
	tg := cfg.Telegram()
	assert.Equal(t, []int64{123, 456}, tg.AllowedUsers)
	assert.True(t, tg.IsUserAllowed(123))
	assert.False(t, tg.IsUserAllowed(789))
}

func TestCascade_Resolution(t *testing.T) {
	ai := loadTestConfig(t).AI()

	assert.Equal(t,
		[]string{"gemini-3.1-pro-preview", "gemini-2.5-pro", "gemini-2.0-pro-exp-02-05"},
		ai.Cascade("pro", "text"),
	)
	assert.Equal(t, []string{"gemini-2.5-flash-image"}, ai.Cascade("flash", "image"))
}

func TestCascade_ImageCapabilitiesShareOneCascade(t *testing.T) {
	ai := loadTestConfig(t).AI()

	image := ai.Cascade("pro", "image")
	assert.Equal(t, image, ai.Cascade("pro", "image_generate"))
	assert.Equal(t, image, ai.Cascade("pro", "image_edit"))
}

func TestCascade_TranscribeFallsBackToText(t *testing.T) {
	ai := loadTestConfig(t).AI()

	assert.Equal(t, ai.Cascade("flash", "text"), ai.Cascade("flash", "transcribe"))
	assert.Equal(t, ai.Cascade("pro", "text"), ai.Cascade("pro", "transcribe"))
}

func TestCascade_UnknownTierFallsBackToFlash(t *testing.T) {
	ai := loadTestConfig(t).AI()

	assert.Equal(t, ai.Cascade("flash", "text"), ai.Cascade("turbo", "text"))
}

func TestIsUserAllowed_EmptyListAdmitsNobody(t *testing.T) {
	tg := TelegramConfig{}
	assert.False(t, tg.IsUserAllowed(1))

	tg.AllowedUsers = []int64{1, 2}
	assert.True(t, tg.IsUserAllowed(1))
	assert.False(t, tg.IsUserAllowed(3))
}

func TestStorageBackend(t *testing.T) {
	assert.Equal(t, "memory", StorageConfig{}.Backend())
	assert.Equal(t, "redis", StorageConfig{URL: "redis://host:6379"}.Backend())
	assert.Equal(t, "redis", StorageConfig{URL: "rediss://host:6380"}.Backend())
	assert.Equal(t, "sqlite", StorageConfig{URL: "bot.db"}.Backend())
}
