package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit:    100,
			CORSOrigins:  []string{"*"},
		},
		Storage: StorageConfig{
			Driver:  DriverNutsDB,
			DataDir: "/var/lib/kimlik",
			DSN:     "",
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Auth: AuthConfig{
			JWTSecret: "",
			TokenTTL:  time.Hour,
			Issuer:    "kimlik",
		},
		Search: SearchConfig{
			MaxLimit: 1000,
		},
	}
}

// setDefaults registers every key with viper so that environment
// overrides reach Unmarshal even when the file omits the key.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.readTimeout", d.Server.ReadTimeout)
	v.SetDefault("server.writeTimeout", d.Server.WriteTimeout)
	v.SetDefault("server.rateLimit", d.Server.RateLimit)
	v.SetDefault("server.corsOrigins", d.Server.CORSOrigins)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.dataDir", d.Storage.DataDir)
	v.SetDefault("storage.dsn", d.Storage.DSN)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("auth.jwtSecret", d.Auth.JWTSecret)
	v.SetDefault("auth.tokenTTL", d.Auth.TokenTTL)
	v.SetDefault("auth.issuer", d.Auth.Issuer)

	v.SetDefault("search.maxLimit", d.Search.MaxLimit)
}
