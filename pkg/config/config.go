// Package config merges the three configuration sources: command-line
// flags, a YAML config file, and HUDDLE_* environment variables. One
// source wins per run; the chosen source is reported so startup can log
// it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
		Port    int    `yaml:"port"`
		DBPath  string `yaml:"db_path"`
		TLS     struct {
			CertFile string `yaml:"cert_file"`
			KeyFile  string `yaml:"key_file"`
		} `yaml:"tls"`
	} `yaml:"server"`

	Security struct {
		// TokenSecret signs session tokens. Mandatory outside tests.
		TokenSecret string `yaml:"token_secret"`
		CORS        struct {
			AllowedOrigins []string `yaml:"allowed_origins"`
		} `yaml:"cors"`
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
		IPWhitelist []string `yaml:"ip_whitelist"`
	} `yaml:"security"`

	Logging struct {
		Level    string `yaml:"level"`
		AuditDir string `yaml:"audit_dir"`
	} `yaml:"logging"`

	Storage struct {
		// SnapshotWarnSize is a humanized byte size ("8 MiB"); saves
		// beyond it log a warning.
		SnapshotWarnSize string `yaml:"snapshot_warn_size"`
	} `yaml:"storage"`

	Maintenance struct {
		Enabled    bool   `yaml:"enabled"`
		Cron       string `yaml:"cron"`
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"maintenance"`
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// SessionTTL parses the maintenance session TTL, defaulting to 24h.
func (c *Config) SessionTTL() time.Duration {
	if c.Maintenance.SessionTTL == "" {
		return 24 * time.Hour
	}
	d, err := time.ParseDuration(c.Maintenance.SessionTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// SnapshotWarnBytes parses the humanized snapshot warning threshold.
// Zero disables the warning.
func (c *Config) SnapshotWarnBytes() uint64 {
	if c.Storage.SnapshotWarnSize == "" {
		return 0
	}
	n, err := humanize.ParseBytes(c.Storage.SnapshotWarnSize)
	if err != nil {
		return 0
	}
	return n
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ResolveConfigPath picks the config file path: an explicit -config
// flag wins, then HUDDLE_CONFIG, then the flag default.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("HUDDLE_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
