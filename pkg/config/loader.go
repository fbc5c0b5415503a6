package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Validator is implemented by config structs that check cross-field rules
// after parsing, such as secrets that must differ from each other.
type Validator interface {
	Validate() error
}

// Load parses environment variables into the provided struct and, when the
// struct implements Validator, validates the result.
//
// Example:
//
//	type Config struct {
//	    HTTPPort int    `env:"JOBBOARD_HTTP_PORT" envDefault:"5000"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if v, ok := cfg.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}
	return nil
}
