// Package config provides configuration loading and management for the kimlik admin API.
//
// # Overview
//
// Configuration is read with spf13/viper from a YAML file, environment
// variables and built-in defaults, in that order of increasing precedence
// for the environment. It supports:
//
//   - YAML configuration files with ${VAR} and ${VAR:-default} substitution
//   - KIMLIK_<SECTION>_<KEY> environment overrides
//   - Default values for all settings
//   - Validation and hot reload
//
// # Configuration Structure
//
//	type Config struct {
//	    Server  ServerConfig  // HTTP listener, timeouts, rate limit
//	    Storage StorageConfig // user store driver
//	    Logging LogConfig     // logging settings
//	    Auth    AuthConfig    // bearer token settings
//	    Search  SearchConfig  // page size cap
//	}
//
// # Loading Configuration
//
//	cfg, err := config.LoadConfig("/etc/kimlik/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
//	    log.Fatal(errs[0])
//	}
//
// # Environment Variables
//
//	KIMLIK_SERVER_ADDRESS=:9090
//	KIMLIK_AUTH_JWTSECRET=...
//	KIMLIK_LOGGING_LEVEL=debug
//
// # Hot Reload
//
// ConfigWatcher watches the file with fsnotify and hands every valid new
// configuration to its OnChange callback. Invalid files are reported through
// OnError and leave the running configuration untouched.
//
// # Example Configuration
//
//	server:
//	  address: ":8080"
//	  readTimeout: 30s
//	  writeTimeout: 30s
//	  rateLimit: 100
//	  corsOrigins: ["*"]
//
//	storage:
//	  driver: nutsdb
//	  dataDir: /var/lib/kimlik
//
//	logging:
//	  level: info
//	  format: json
//	  output: stdout
//
//	auth:
//	  jwtSecret: "${KIMLIK_JWT_SECRET}"
//	  tokenTTL: 1h
//	  issuer: kimlik
//
//	search:
//	  maxLimit: 1000
package config
