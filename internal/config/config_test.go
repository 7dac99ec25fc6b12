package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	t.Run("server defaults", func(t *testing.T) {
		assert.Equal(t, ":8080", config.Server.Address)
		assert.Equal(t, 30*time.Second, config.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, config.Server.WriteTimeout)
		assert.Equal(t, 100, config.Server.RateLimit)
		assert.Equal(t, []string{"*"}, config.Server.CORSOrigins)
	})

	t.Run("storage defaults", func(t *testing.T) {
		assert.Equal(t, DriverNutsDB, config.Storage.Driver)
		assert.Equal(t, "/var/lib/kimlik", config.Storage.DataDir)
	})

	t.Run("logging defaults", func(t *testing.T) {
		assert.Equal(t, "info", config.Logging.Level)
		assert.Equal(t, "json", config.Logging.Format)
		assert.Equal(t, "stdout", config.Logging.Output)
	})

	t.Run("auth and search defaults", func(t *testing.T) {
		assert.Equal(t, time.Hour, config.Auth.TokenTTL)
		assert.Equal(t, "kimlik", config.Auth.Issuer)
		assert.Equal(t, 1000, config.Search.MaxLimit)
	})
}

func TestParseConfig(t *testing.T) {
	t.Run("empty config uses defaults", func(t *testing.T) {
		config, err := ParseConfig([]byte(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("parse all sections", func(t *testing.T) {
		yaml := `
server:
  address: ":9090"
  readTimeout: 5s
  writeTimeout: 1m
  rateLimit: 7
  corsOrigins:
    - "https://admin.example.com"
storage:
  driver: sqlite
  dataDir: /srv/kimlik
logging:
  level: debug
  format: text
auth:
  jwtSecret: "` + testSecret + `"
  tokenTTL: 15m
  issuer: idp
search:
  maxLimit: 50
`
		config, err := ParseConfig([]byte(yaml))
		require.NoError(t, err)

		assert.Equal(t, ":9090", config.Server.Address)
		assert.Equal(t, 5*time.Second, config.Server.ReadTimeout)
		assert.Equal(t, time.Minute, config.Server.WriteTimeout)
		assert.Equal(t, 7, config.Server.RateLimit)
		assert.Equal(t, []string{"https://admin.example.com"}, config.Server.CORSOrigins)
		assert.Equal(t, DriverSQLite, config.Storage.Driver)
		assert.Equal(t, "/srv/kimlik", config.Storage.DataDir)
		assert.Equal(t, "debug", config.Logging.Level)
		assert.Equal(t, "text", config.Logging.Format)
		assert.Equal(t, "stdout", config.Logging.Output)
		assert.Equal(t, testSecret, config.Auth.JWTSecret)
		assert.Equal(t, 15*time.Minute, config.Auth.TokenTTL)
		assert.Equal(t, "idp", config.Auth.Issuer)
		assert.Equal(t, 50, config.Search.MaxLimit)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseConfig([]byte("server: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("env substitution", func(t *testing.T) {
		t.Setenv("KIMLIK_TEST_SECRET", testSecret)
		yaml := `
auth:
  jwtSecret: "${KIMLIK_TEST_SECRET}"
  issuer: "${KIMLIK_TEST_UNSET_ISSUER:-fallback}"
`
		config, err := ParseConfig([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, testSecret, config.Auth.JWTSecret)
		assert.Equal(t, "fallback", config.Auth.Issuer)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("KIMLIK_SERVER_ADDRESS", ":7070")
		t.Setenv("KIMLIK_SEARCH_MAXLIMIT", "25")
		t.Setenv("KIMLIK_AUTH_TOKENTTL", "2h")

		config, err := ParseConfig([]byte("server:\n  address: \":9090\"\n"))
		require.NoError(t, err)
		assert.Equal(t, ":7070", config.Server.Address)
		assert.Equal(t, 25, config.Search.MaxLimit)
		assert.Equal(t, 2*time.Hour, config.Auth.TokenTTL)
	})
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KIMLIK_STORAGE_DRIVER", "memory")

	config, err := LoadDefaults()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, config.Storage.Driver)
	assert.Equal(t, ":8080", config.Server.Address)
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kimlik.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", config.Logging.Level)
	})
}

func validConfig() *Config {
	config := DefaultConfig()
	config.Auth.JWTSecret = testSecret
	return config
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"missing address", func(c *Config) { c.Server.Address = "" }, "server.address"},
		{"bad address", func(c *Config) { c.Server.Address = "8080" }, "server.address"},
		{"negative read timeout", func(c *Config) { c.Server.ReadTimeout = -time.Second }, "server.readTimeout"},
		{"negative write timeout", func(c *Config) { c.Server.WriteTimeout = -time.Second }, "server.writeTimeout"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "server.rateLimit"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, "storage.driver"},
		{"missing data dir", func(c *Config) { c.Storage.DataDir = "" }, "storage.dataDir"},
		{"relative data dir", func(c *Config) { c.Storage.DataDir = "data" }, "storage.dataDir"},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }, "storage.dsn"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"relative output", func(c *Config) { c.Logging.Output = "kimlik.log" }, "logging.output"},
		{"missing output dir", func(c *Config) { c.Logging.Output = "/nonexistent/dir/kimlik.log" }, "logging.output"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "auth.jwtSecret"},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "auth.tokenTTL"},
		{"negative max limit", func(c *Config) { c.Search.MaxLimit = -1 }, "search.maxLimit"},
	}

	assert.Empty(t, ValidateConfig(validConfig()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modify(config)

			errs := ValidateConfig(config)
			require.Len(t, errs, 1)
			var verr ValidationError
			require.ErrorAs(t, errs[0], &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateMemoryDriverNeedsNoPath(t *testing.T) {
	config := validConfig()
	config.Storage.Driver = DriverMemory
	config.Storage.DataDir = ""
	assert.Empty(t, ValidateConfig(config))
}

func TestValidationErrorString(t *testing.T) {
	err := ValidationError{Field: "server.address", Message: "is required"}
	assert.Equal(t, "server.address: is required", err.Error())
}
