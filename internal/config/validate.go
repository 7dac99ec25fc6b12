package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// minSecretLength is the shortest accepted HMAC secret.
const minSecretLength = 32

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig validates the configuration and returns a list of validation errors.
// An empty slice indicates the configuration is valid.
func ValidateConfig(config *Config) []error {
	var errs []error

	errs = append(errs, validateServerConfig(&config.Server)...)
	errs = append(errs, validateStorageConfig(&config.Storage)...)
	errs = append(errs, validateLogConfig(&config.Logging)...)
	errs = append(errs, validateAuthConfig(&config.Auth)...)
	errs = append(errs, validateSearchConfig(&config.Search)...)

	return errs
}

func validateServerConfig(config *ServerConfig) []error {
	var errs []error

	if config.Address == "" {
		errs = append(errs, ValidationError{
			Field:   "server.address",
			Message: "is required",
		})
	} else if err := validateAddress(config.Address); err != nil {
		errs = append(errs, ValidationError{
			Field:   "server.address",
			Message: err.Error(),
		})
	}

	if config.ReadTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.readTimeout",
			Message: "must be non-negative",
		})
	}

	if config.WriteTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.writeTimeout",
			Message: "must be non-negative",
		})
	}

	if config.RateLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.rateLimit",
			Message: "must be non-negative",
		})
	}

	return errs
}

func validateStorageConfig(config *StorageConfig) []error {
	var errs []error

	switch config.Driver {
	case DriverMemory:
	case DriverNutsDB, DriverSQLite:
		if config.DataDir == "" {
			errs = append(errs, ValidationError{
				Field:   "storage.dataDir",
				Message: fmt.Sprintf("is required for the %s driver", config.Driver),
			})
		} else if !filepath.IsAbs(config.DataDir) {
			errs = append(errs, ValidationError{
				Field:   "storage.dataDir",
				Message: "must be an absolute path",
			})
		}
	case DriverPostgres:
		if config.DSN == "" {
			errs = append(errs, ValidationError{
				Field:   "storage.dsn",
				Message: "is required for the postgres driver",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.driver",
			Message: "must be memory, nutsdb, sqlite, or postgres",
		})
	}

	return errs
}

func validateLogConfig(config *LogConfig) []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if config.Level != "" && !validLevels[strings.ToLower(config.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: "must be debug, info, warn, or error",
		})
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if config.Format != "" && !validFormats[strings.ToLower(config.Format)] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: "must be text or json",
		})
	}

	if config.Output != "" && config.Output != "stdout" && config.Output != "stderr" {
		dir := filepath.Dir(config.Output)
		if !filepath.IsAbs(config.Output) {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: "must be stdout, stderr, or an absolute file path",
			})
		} else if _, err := os.Stat(dir); os.IsNotExist(err) {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: fmt.Sprintf("directory %s does not exist", dir),
			})
		}
	}

	return errs
}

func validateAuthConfig(config *AuthConfig) []error {
	var errs []error

	if len(config.JWTSecret) < minSecretLength {
		errs = append(errs, ValidationError{
			Field:   "auth.jwtSecret",
			Message: fmt.Sprintf("must be at least %d bytes", minSecretLength),
		})
	}

	if config.TokenTTL <= 0 {
		errs = append(errs, ValidationError{
			Field:   "auth.tokenTTL",
			Message: "must be positive",
		})
	}

	return errs
}

func validateSearchConfig(config *SearchConfig) []error {
	if config.MaxLimit < 0 {
		return []error{ValidationError{
			Field:   "search.maxLimit",
			Message: "must be non-negative",
		}}
	}
	return nil
}

// validateAddress validates a network address in host:port format.
func validateAddress(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %v", err)
	}
	if port == "" {
		return fmt.Errorf("port is required")
	}
	return nil
}
