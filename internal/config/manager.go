package config

import (
	"fmt"
	"sync"
)

// ConfigManager holds the running configuration and swaps it on reload.
type ConfigManager struct {
	config     *Config
	configFile string
	mu         sync.RWMutex
	onUpdate   func(old, new *Config)
}

// NewConfigManager creates a new config manager.
func NewConfigManager(cfg *Config, configFile string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configFile: configFile,
	}
}

// SetOnUpdate sets the callback for config updates.
func (m *ConfigManager) SetOnUpdate(fn func(old, new *Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = fn
}

// GetConfig returns the current config.
func (m *ConfigManager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// GetConfigFile returns the config file path.
func (m *ConfigManager) GetConfigFile() string {
	return m.configFile
}

// Reload reloads config from file.
func (m *ConfigManager) Reload() error {
	if m.configFile == "" {
		return fmt.Errorf("no config file configured")
	}

	newConfig, err := LoadConfig(m.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if errs := ValidateConfig(newConfig); len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs[0])
	}

	m.Apply(newConfig)
	return nil
}

// Apply replaces the current config and runs the update callback.
func (m *ConfigManager) Apply(newConfig *Config) {
	m.mu.Lock()
	oldConfig := m.config
	m.config = newConfig
	onUpdate := m.onUpdate
	m.mu.Unlock()

	if onUpdate != nil {
		onUpdate(oldConfig, newConfig)
	}
}

// ConfigJSON represents config in JSON format with sensitive data masked.
type ConfigJSON struct {
	Server  ServerConfigJSON  `json:"server"`
	Storage StorageConfigJSON `json:"storage"`
	Logging LogConfigJSON     `json:"logging"`
	Auth    AuthConfigJSON    `json:"auth"`
	Search  SearchConfig      `json:"search"`
}

// ServerConfigJSON represents server config in JSON.
type ServerConfigJSON struct {
	Address      string   `json:"address"`
	ReadTimeout  string   `json:"readTimeout"`
	WriteTimeout string   `json:"writeTimeout"`
	RateLimit    int      `json:"rateLimit"`
	CORSOrigins  []string `json:"corsOrigins"`
}

// StorageConfigJSON represents storage config in JSON.
type StorageConfigJSON struct {
	Driver  string `json:"driver"`
	DataDir string `json:"dataDir,omitempty"`
	DSN     string `json:"dsn,omitempty"`
}

// LogConfigJSON represents logging config in JSON.
type LogConfigJSON struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Output string `json:"output"`
}

// AuthConfigJSON represents auth config in JSON.
type AuthConfigJSON struct {
	JWTSecret string `json:"jwtSecret"`
	TokenTTL  string `json:"tokenTTL"`
	Issuer    string `json:"issuer"`
}

// ToJSON returns config as JSON-serializable struct with sensitive data masked.
func (m *ConfigManager) ToJSON() *ConfigJSON {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := m.config
	return &ConfigJSON{
		Server: ServerConfigJSON{
			Address:      c.Server.Address,
			ReadTimeout:  c.Server.ReadTimeout.String(),
			WriteTimeout: c.Server.WriteTimeout.String(),
			RateLimit:    c.Server.RateLimit,
			CORSOrigins:  append([]string(nil), c.Server.CORSOrigins...),
		},
		Storage: StorageConfigJSON{
			Driver:  c.Storage.Driver,
			DataDir: c.Storage.DataDir,
			DSN:     maskSecret(c.Storage.DSN),
		},
		Logging: LogConfigJSON{
			Level:  c.Logging.Level,
			Format: c.Logging.Format,
			Output: c.Logging.Output,
		},
		Auth: AuthConfigJSON{
			JWTSecret: maskSecret(c.Auth.JWTSecret),
			TokenTTL:  c.Auth.TokenTTL.String(),
			Issuer:    c.Auth.Issuer,
		},
		Search: c.Search,
	}
}

// maskSecret hides a secret while showing whether it is set.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
