package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that everything the current environment needs is
// set. Development and test runs get by on defaults; production refuses to
// start without its secrets so a misdeployed container fails fast instead
// of serving unauthenticated requests.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT must not be empty")
	}
	if cfg.DBHost == "" || cfg.DBName == "" {
		errors = append(errors, "DB_HOST and DB_NAME must not be empty")
	}

	if IsProduction() {
		if cfg.APIKey == "" {
			errors = append(errors, "API_KEY or API_KEY_FILE is required in production")
		}
		if cfg.OpenAIKey == "" {
			errors = append(errors, "OPENAI_API_KEY or OPENAI_API_KEY_FILE is required in production")
		}
		if cfg.DBPassword == "" {
			errors = append(errors, "DB_PASSWORD or DB_PASSWORD_FILE is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errors = append(errors, "DB_SSL_MODE must not be disable in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
