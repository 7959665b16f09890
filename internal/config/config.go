// Package config handles loading and parsing the YAML configuration file and
// provides structured access to application settings including the listen
// address, logging behavior, and client API keys.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Host is the address the HTTP server binds to. Empty binds all interfaces.
	Host string `yaml:"host" json:"host"`

	// Port is the TCP port the HTTP server listens on.
	Port int `yaml:"port" json:"port"`

	// Debug lowers the log level to debug and enables verbose router output.
	Debug bool `yaml:"debug" json:"debug"`

	// RequestLog enables per-request translation logging.
	RequestLog bool `yaml:"request-log" json:"request-log"`

	// APIKeys is a list of keys for authenticating clients to this server.
	// Empty disables authentication.
	APIKeys []string `yaml:"api-keys" json:"api-keys"`

	// Logging controls log file output and rotation.
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig holds log output and rotation settings.
type LoggingConfig struct {
	// ToFile writes logs to a rotating file under Dir instead of stderr.
	ToFile bool `yaml:"to-file" json:"to-file"`

	// Dir is the directory receiving rotated log files. Default "logs".
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// MaxSizeMB is the size at which a log file rotates. Default 100.
	MaxSizeMB int `yaml:"max-size-mb,omitempty" json:"max-size-mb,omitempty"`

	// MaxBackups is how many rotated files to retain. Default 3.
	MaxBackups int `yaml:"max-backups,omitempty" json:"max-backups,omitempty"`

	// MaxAgeDays is how long rotated files are retained. Default 28.
	MaxAgeDays int `yaml:"max-age-days,omitempty" json:"max-age-days,omitempty"`
}

// DefaultPort is used when the file does not set one.
const DefaultPort = 8317

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := &Config{}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = "logs"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 100
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 28
	}
}
