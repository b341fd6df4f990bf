// Package config holds the chat request defaults and the store that
// serves them to the chat session.
package config

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stardustagi/TopChat/llm/models"
)

// 凭证环境变量，按顺序查找
const (
	EnvAPIKey       = "API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

const (
	DefaultTemperature float32 = 0.6
	DefaultMaxTokens           = 150
)

type Config struct {
	Key         string       `json:"key"`
	Model       models.Model `json:"model" validate:"required,chatmodel"`
	Temperature float32      `json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int          `json:"max_tokens" validate:"gt=0"`
	Stream      bool         `json:"stream"`
	Role        string       `json:"role" validate:"oneof=user assistant system"`
}

// Default is the configuration used until the first Set.
func Default() Config {
	return Config{
		Key:         KeyFromEnv(),
		Model:       models.GPT3Turbo,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Stream:      false,
		Role:        models.RoleUser,
	}
}

func KeyFromEnv() string {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return os.Getenv(EnvOpenAIAPIKey)
}

// Masked 返回隐藏凭证后的副本，用于展示和日志
func (c Config) Masked() Config {
	if len(c.Key) > 8 {
		c.Key = c.Key[:3] + strings.Repeat("*", len(c.Key)-7) + c.Key[len(c.Key)-4:]
	} else if c.Key != "" {
		c.Key = "****"
	}
	return c
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator 返回注册了 chatmodel 规则的校验器
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("chatmodel", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseModel(fl.Field().String())
			return ok
		})
	})
	return validate
}

func (c Config) Validate() error {
	return Validator().Struct(c)
}

// Load 将 JSON 配置段叠加到 Default 上并校验
// 模型名允许使用枚举名，如 gpt3turbo
func Load(section []byte) (Config, error) {
	cfg := Default()
	if len(section) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(section, &cfg); err != nil {
		return cfg, errors.Wrap(err, "decode openai config")
	}
	if m, ok := models.ParseModel(string(cfg.Model)); ok {
		cfg.Model = m
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid openai config")
	}
	return cfg, nil
}

// Store 当前生效的配置，Set 为整体替换
type Store struct {
	mu  sync.RWMutex
	cfg Config
}

func NewStore(initial Config) *Store {
	return &Store{cfg: initial}
}

func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set replaces the whole configuration. No field is merged or validated.
func (s *Store) Set(next Config) {
	s.mu.Lock()
	s.cfg = next
	s.mu.Unlock()
}

// IsModelAvailable reports whether model may be selected.
func (s *Store) IsModelAvailable(model models.Model) bool {
	return models.IsModelAvailable(model)
}
