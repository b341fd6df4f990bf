package config

import (
	"testing"

	"github.com/stardustagi/TopChat/llm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-env")
	cfg := Default()

	assert.Equal(t, "sk-env", cfg.Key)
	assert.Equal(t, models.GPT3Turbo, cfg.Model)
	assert.Equal(t, float32(0.6), cfg.Temperature)
	assert.Equal(t, 150, cfg.MaxTokens)
	assert.False(t, cfg.Stream)
	assert.Equal(t, "user", cfg.Role)
}

func TestKeyFromEnvFallback(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvOpenAIAPIKey, "sk-openai")
	assert.Equal(t, "sk-openai", KeyFromEnv())
}

func TestStoreSetGet(t *testing.T) {
	store := NewStore(Default())
	next := Config{
		Key:         "sk-next",
		Model:       models.Curie,
		Temperature: 1.25,
		MaxTokens:   7,
		Stream:      true,
		Role:        "assistant",
	}
	store.Set(next)
	assert.Equal(t, next, store.Get())

	t.Run("FullOverwriteNoMerge", func(t *testing.T) {
		partial := Config{Model: models.Ada}
		store.Set(partial)
		assert.Equal(t, partial, store.Get())
	})

	t.Run("NoValidation", func(t *testing.T) {
		invalid := Config{Model: "not-a-model", MaxTokens: -1}
		store.Set(invalid)
		assert.Equal(t, invalid, store.Get())
	})
}

func TestStoreIsModelAvailable(t *testing.T) {
	store := NewStore(Default())
	assert.False(t, store.IsModelAvailable(models.GPT4))
	assert.True(t, store.IsModelAvailable(models.GPT3Turbo))
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-env")

	t.Run("Empty", func(t *testing.T) {
		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("OverlayWithEnumName", func(t *testing.T) {
		cfg, err := Load([]byte(`{"model":"gpt4","temperature":0.2,"max_tokens":64}`))
		require.NoError(t, err)
		assert.Equal(t, models.GPT4, cfg.Model)
		assert.Equal(t, float32(0.2), cfg.Temperature)
		assert.Equal(t, 64, cfg.MaxTokens)
		assert.Equal(t, "user", cfg.Role)
		assert.Equal(t, "sk-env", cfg.Key)
	})

	t.Run("UnknownModel", func(t *testing.T) {
		_, err := Load([]byte(`{"model":"gpt-5"}`))
		assert.Error(t, err)
	})

	t.Run("BadRole", func(t *testing.T) {
		_, err := Load([]byte(`{"role":"narrator"}`))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := Load([]byte(`{"max_tokens":"many"}`))
		assert.Error(t, err)
	})
}

func TestMasked(t *testing.T) {
	cfg := Config{Key: "sk-1234567890abcd"}
	masked := cfg.Masked()
	assert.Equal(t, "sk-**********abcd", masked.Key)
	assert.Equal(t, "sk-1234567890abcd", cfg.Key)

	assert.Equal(t, "****", Config{Key: "short"}.Masked().Key)
	assert.Equal(t, "", Config{}.Masked().Key)
}
