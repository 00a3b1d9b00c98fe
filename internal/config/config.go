// Package config loads server configuration from an optional YAML file
// with environment variable overrides. Precedence: defaults < file < env,
// so a deployment can ship a config file and still tweak single values
// per environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort       = 8080
	DefaultDBPath     = "data/makerburg.db"
	DefaultSessionTTL = 7 * 24 * time.Hour
	DefaultLogLevel   = "info"
)

// Config holds everything the server needs to start.
type Config struct {
	Port          int           `yaml:"port"`
	DBPath        string        `yaml:"dbPath"`
	SessionSecret string        `yaml:"sessionSecret"`
	SessionTTL    time.Duration `yaml:"sessionTTL"`
	BcryptCost    int           `yaml:"bcryptCost"` // 0 = library default
	Seed          bool          `yaml:"seed"`       // load sample catalog on first boot
	LogLevel      string        `yaml:"logLevel"`   // "debug" | "info" | "warn" | "error"
}

// Load builds a Config from defaults, an optional YAML file, and
// environment variables, in that order. path may be empty; a missing file
// at an explicit path is an error, so a typo'd MAKERBURG_CONFIG doesn't
// silently boot with defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:       DefaultPort,
		DBPath:     DefaultDBPath,
		SessionTTL: DefaultSessionTTL,
		Seed:       true,
		LogLevel:   DefaultLogLevel,
	}

	if path == "" {
		path = os.Getenv("MAKERBURG_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.Port = getenvInt("MAKERBURG_PORT", cfg.Port)
	cfg.DBPath = getenv("MAKERBURG_DB_PATH", cfg.DBPath)
	cfg.SessionSecret = getenv("MAKERBURG_SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = getenvDuration("MAKERBURG_SESSION_TTL", cfg.SessionTTL)
	cfg.BcryptCost = getenvInt("MAKERBURG_BCRYPT_COST", cfg.BcryptCost)
	cfg.Seed = getenvBool("MAKERBURG_SEED", cfg.Seed)
	cfg.LogLevel = getenv("MAKERBURG_LOG_LEVEL", cfg.LogLevel)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("session secret is required (set MAKERBURG_SESSION_SECRET)")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// env helpers: malformed values fall back to the current value rather than
// failing the boot, matching the forgiving getenv style.

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
