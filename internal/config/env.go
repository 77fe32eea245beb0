package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/jonathan/tonecycle/internal/tonecycle"
)

// EnvPrefix is prepended to every variable; tagged names also resolve unprefixed
const EnvPrefix = "TONECYCLE"

// RateLimit configures per-client request throttling on the server
type RateLimit struct {
	PerMinute int `split_words:"true" default:"30"`
	Burst     int `default:"10"`
}

// Env is the process configuration read from the environment
type Env struct {
	Port        int    `default:"8080"`
	Environment string `default:"development"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	Model        string `envconfig:"MODEL"`
	Tier         string `default:"standard"`

	DatabaseURL   string `envconfig:"DATABASE_URL"`
	CredentialKey string `envconfig:"CREDENTIAL_KEY"`

	JWTSecret          string `envconfig:"JWT_SECRET"`
	JWTExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`

	GuidePath      string        `split_words:"true"`
	StateFile      string        `split_words:"true"`
	BatchSize      int           `split_words:"true" default:"3"`
	MaxAttempts    int           `split_words:"true" default:"4"`
	AttemptTimeout time.Duration `split_words:"true" default:"45s"`
	AllowedOrigins []string      `split_words:"true" default:"*"`

	RateLimit RateLimit             `envconfig:"RATE_LIMIT"`
	Redis     tonecycle.RedisConfig `envconfig:"REDIS"`
}

// LoadEnv processes the environment into an Env
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if env.BatchSize < 1 {
		return nil, fmt.Errorf("%s_BATCH_SIZE must be at least 1, got %d", EnvPrefix, env.BatchSize)
	}
	if env.MaxAttempts < 1 {
		return nil, fmt.Errorf("%s_MAX_ATTEMPTS must be at least 1, got %d", EnvPrefix, env.MaxAttempts)
	}
	return &env, nil
}

// JWT returns the token configuration, failing when no secret is set
func (e *Env) JWT() (*JWTConfig, error) {
	return NewJWTConfig(e.JWTSecret, e.JWTExpirationHours)
}
