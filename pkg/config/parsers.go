package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// EffectiveConfigResult is the outcome of source selection: the merged
// config plus the resolved listen address and database path, and which
// source supplied them.
type EffectiveConfigResult struct {
	Config *Config
	Addr   string
	DBPath string
	Source string // "flags", "config", or "env"
}

// ParseConfigFlags parses command-line flags.
func ParseConfigFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.huddle", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: set}
}

// ParseConfigFile resolves the config path and loads the YAML file. It
// reports whether the file was present; only parse failures are fatal.
func ParseConfigFile(flags Flags) (*Config, bool, error) {
	path := ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, false, nil
		}
		return nil, false, err
	}
	return cfg, true, nil
}

// ParseConfigEnvs reads HUDDLE_* environment variables into a fresh
// Config and reports whether any were present.
func ParseConfigEnvs() (*Config, bool) {
	cfg := &Config{}
	used := false

	if v := os.Getenv("HUDDLE_ADDR"); v != "" {
		used = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	} else {
		if host := os.Getenv("HUDDLE_ADDRESS"); host != "" {
			used = true
			cfg.Server.Address = host
		}
		if port := os.Getenv("HUDDLE_PORT"); port != "" {
			used = true
			if pi, err := strconv.Atoi(port); err == nil {
				cfg.Server.Port = pi
			}
		}
	}

	if v := os.Getenv("HUDDLE_DB_PATH"); v != "" {
		used = true
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("HUDDLE_TOKEN_SECRET"); v != "" {
		used = true
		cfg.Security.TokenSecret = v
	}
	if v := os.Getenv("HUDDLE_CORS_ORIGINS"); v != "" {
		used = true
		cfg.Security.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HUDDLE_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			used = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("HUDDLE_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			used = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("HUDDLE_IP_WHITELIST"); v != "" {
		used = true
		cfg.Security.IPWhitelist = splitList(v)
	}
	if v := os.Getenv("HUDDLE_LOG_LEVEL"); v != "" {
		used = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HUDDLE_AUDIT_DIR"); v != "" {
		used = true
		cfg.Logging.AuditDir = v
	}
	if v := os.Getenv("HUDDLE_SNAPSHOT_WARN_SIZE"); v != "" {
		used = true
		cfg.Storage.SnapshotWarnSize = v
	}
	if v := os.Getenv("HUDDLE_MAINTENANCE_CRON"); v != "" {
		used = true
		cfg.Maintenance.Enabled = true
		cfg.Maintenance.Cron = v
	}
	if v := os.Getenv("HUDDLE_SESSION_TTL"); v != "" {
		used = true
		cfg.Maintenance.SessionTTL = v
	}
	if c := os.Getenv("HUDDLE_TLS_CERT"); c != "" {
		used = true
		cfg.Server.TLS.CertFile = c
	}
	if k := os.Getenv("HUDDLE_TLS_KEY"); k != "" {
		used = true
		cfg.Server.TLS.KeyFile = k
	}
	return cfg, used
}

// LoadEffectiveConfig picks the winning source. An explicit -config
// flag requires the file to exist and uses it exclusively; explicit
// -addr/-db flags win next; otherwise a present config file beats the
// environment.
func LoadEffectiveConfig(flags Flags, fileCfg *Config, fileExists bool, envCfg *Config) (EffectiveConfigResult, error) {
	var res EffectiveConfigResult

	if flags.Set["config"] {
		if !fileExists {
			return res, fmt.Errorf("config file %s not found", flags.Config)
		}
		res.Config = fileCfg
		res.Addr = fileCfg.Addr()
		res.DBPath = fileCfg.Server.DBPath
		res.Source = "config"
		return res, nil
	}

	if flags.Set["addr"] || flags.Set["db"] {
		addr := flags.Addr
		if !flags.Set["addr"] {
			addr = envCfg.Addr()
		}
		dbPath := flags.DB
		if !flags.Set["db"] {
			if p := strings.TrimSpace(envCfg.Server.DBPath); p != "" {
				dbPath = p
			} else if p := strings.TrimSpace(fileCfg.Server.DBPath); p != "" {
				dbPath = p
			}
		}
		out := &Config{}
		out.Server.Address = addr
		out.Server.Port = parsePortFromAddr(addr)
		out.Server.DBPath = dbPath
		out.Security = envCfg.Security
		out.Logging = envCfg.Logging
		out.Storage = envCfg.Storage
		out.Maintenance = envCfg.Maintenance
		res.Config = out
		res.Addr = addr
		res.DBPath = dbPath
		res.Source = "flags"
		return res, nil
	}

	if fileExists {
		res.Config = fileCfg
		res.Addr = fileCfg.Addr()
		res.DBPath = fileCfg.Server.DBPath
		res.Source = "config"
		return res, nil
	}

	res.Config = envCfg
	res.Addr = envCfg.Addr()
	res.DBPath = envCfg.Server.DBPath
	res.Source = "env"
	return res, nil
}

func splitList(v string) []string {
	out := []string{}
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parsePortFromAddr(a string) int {
	if a == "" {
		return 0
	}
	if _, p, err := net.SplitHostPort(a); err == nil {
		if pi, err := strconv.Atoi(p); err == nil {
			return pi
		}
	}
	return 0
}
