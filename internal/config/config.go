// Package config provides configuration loading and management for the kimlik admin API.
package config

import "time"

// Config holds the complete server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LogConfig     `mapstructure:"logging"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Search  SearchConfig  `mapstructure:"search"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	RateLimit    int           `mapstructure:"rateLimit"` // requests per second per client, 0 disables
	CORSOrigins  []string      `mapstructure:"corsOrigins"`
}

// StorageConfig selects and configures the user store.
type StorageConfig struct {
	Driver  string `mapstructure:"driver"` // memory, nutsdb, sqlite or postgres
	DataDir string `mapstructure:"dataDir"`
	DSN     string `mapstructure:"dsn"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// AuthConfig holds bearer token configuration.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwtSecret"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
	Issuer    string        `mapstructure:"issuer"`
}

// SearchConfig holds search limits.
type SearchConfig struct {
	MaxLimit int `mapstructure:"maxLimit" json:"maxLimit"`
}

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverNutsDB   = "nutsdb"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)
