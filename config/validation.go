package config

import (
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable for the current
// environment. Production requires real secrets; development and test are
// allowed to run without them so local tooling keeps working.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "ServerPort", Message: "must not be empty"}
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return ValidationError{Field: "ServerPort", Message: "must be numeric"}
	}

	if cfg.StageIntervalMillis < 0 {
		return ValidationError{Field: "StageIntervalMillis", Message: "must not be negative"}
	}

	if IsProduction() {
		if cfg.JWTSecret == "" {
			return ValidationError{Field: "JWTSecret", Message: "required in production"}
		}
		if cfg.DBPassword == "" {
			return ValidationError{Field: "DBPassword", Message: "required in production"}
		}
		if cfg.OpenAIKey == "" {
			return ValidationError{Field: "OpenAIKey", Message: "required in production"}
		}
	}

	return nil
}
