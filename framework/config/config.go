package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/km-arc/go-state/framework/state"
)

// Config is the central typed configuration struct.
type Config struct {
	App   AppConfig
	Log   LogConfig
	State StateConfig
}

type AppConfig struct {
	Name  string `envconfig:"APP_NAME" default:"GoState" validate:"required"`
	Env   string `envconfig:"APP_ENV" default:"local" validate:"oneof=local production testing"`
	Debug bool   `envconfig:"APP_DEBUG" default:"true"`
	Port  string `envconfig:"APP_PORT" default:"8000" validate:"required,numeric"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
}

type StateConfig struct {
	// HostMode is anything state.ParseHostMode accepts: auto, browser (or
	// wasm) and server, in any case.
	HostMode string `envconfig:"STATE_HOST_MODE" default:"auto" validate:"hostmode"`
	Folder   string `envconfig:"STATE_FOLDER" default:"statecontainers" validate:"required"`
}

// Load reads .env files (if present) and populates a Config from environment
// variables. Variables already set in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	cfg := &Config{}
	for _, section := range []any{&cfg.App, &cfg.Log, &cfg.State} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := newValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hostmode", func(fl validator.FieldLevel) bool {
		_, err := state.ParseHostMode(fl.Field().String())
		return err == nil
	})
	return v
}

// MustLoad is Load that panics on error.
func MustLoad(envFiles ...string) *Config {
	cfg, err := Load(envFiles...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	i, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return b
}
