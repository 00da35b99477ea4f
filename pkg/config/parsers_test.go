package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEffectiveConfigExplicitFile(t *testing.T) {
	flags := Flags{Config: "/nonexistent/config.yaml", Set: map[string]bool{"config": true}}
	if _, err := LoadEffectiveConfig(flags, &Config{}, false, &Config{}); err == nil {
		t.Fatal("explicit missing config file should fail")
	}

	fileCfg := &Config{}
	fileCfg.Server.Address = "127.0.0.1"
	fileCfg.Server.Port = 9000
	fileCfg.Server.DBPath = "/data/huddle"
	res, err := LoadEffectiveConfig(flags, fileCfg, true, &Config{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Source != "config" || res.Addr != "127.0.0.1:9000" || res.DBPath != "/data/huddle" {
		t.Fatalf("res = %+v", res)
	}
}

func TestLoadEffectiveConfigFlagsWin(t *testing.T) {
	flags := Flags{Addr: ":9999", DB: "./db", Set: map[string]bool{"addr": true, "db": true}}
	fileCfg := &Config{}
	fileCfg.Server.DBPath = "/file/db"
	envCfg := &Config{}
	envCfg.Security.TokenSecret = "from-env"

	res, err := LoadEffectiveConfig(flags, fileCfg, true, envCfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Source != "flags" || res.Addr != ":9999" || res.DBPath != "./db" {
		t.Fatalf("res = %+v", res)
	}
	// env sections carry over when flags pick the address and db
	if res.Config.Security.TokenSecret != "from-env" {
		t.Fatalf("security section not carried: %+v", res.Config.Security)
	}
}

func TestLoadEffectiveConfigEnvFallback(t *testing.T) {
	envCfg := &Config{}
	envCfg.Server.Address = "10.0.0.1"
	envCfg.Server.Port = 8081
	envCfg.Server.DBPath = "/env/db"
	res, err := LoadEffectiveConfig(Flags{Set: map[string]bool{}}, &Config{}, false, envCfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Source != "env" || res.Addr != "10.0.0.1:8081" || res.DBPath != "/env/db" {
		t.Fatalf("res = %+v", res)
	}
}

func TestParseConfigEnvs(t *testing.T) {
	t.Setenv("HUDDLE_ADDR", "0.0.0.0:7070")
	t.Setenv("HUDDLE_TOKEN_SECRET", "s3cret")
	t.Setenv("HUDDLE_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("HUDDLE_RATE_RPS", "12.5")

	cfg, used := ParseConfigEnvs()
	if !used {
		t.Fatal("env vars not detected")
	}
	if cfg.Server.Address != "0.0.0.0" || cfg.Server.Port != 7070 {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Security.TokenSecret != "s3cret" {
		t.Fatalf("secret = %q", cfg.Security.TokenSecret)
	}
	if len(cfg.Security.CORS.AllowedOrigins) != 2 || cfg.Security.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.Security.CORS.AllowedOrigins)
	}
	if cfg.Security.RateLimit.RPS != 12.5 {
		t.Fatalf("rps = %v", cfg.Security.RateLimit.RPS)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  address: 127.0.0.1
  port: 8088
  db_path: /tmp/huddle
security:
  token_secret: abc
storage:
  snapshot_warn_size: 64MB
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8088 || cfg.Security.TokenSecret != "abc" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got := cfg.SnapshotWarnBytes(); got != 64*1000*1000 {
		t.Fatalf("warn bytes = %d", got)
	}
}
