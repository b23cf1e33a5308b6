package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAppFromYAML(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", `
base:
  name: vida-academica
  environment: production
server:
  port: 9090
database:
  dsn: test.db
auth:
  token:
    secret: test-secret-value
`)

	cfg, err := LoadApp(WithConfigFile(cfgFile), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	if cfg.Base.Environment != "production" {
		t.Errorf("environment = %s", cfg.Base.Environment)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.DSN != "test.db" {
		t.Errorf("dsn = %s", cfg.Database.DSN)
	}
	if cfg.Auth.Token.Secret != "test-secret-value" {
		t.Errorf("secret not loaded")
	}
	// defaults cascade
	if cfg.Logging.Level != "info" {
		t.Errorf("logging default missing: %s", cfg.Logging.Level)
	}
	if cfg.Metrics.ServiceName != "vida-academica" {
		t.Errorf("metrics service name = %s", cfg.Metrics.ServiceName)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", `
base:
  name: vida-academica
auth:
  token:
    secret: from-file
`)
	t.Setenv("AUTH_TOKEN_SECRET", "from-env")

	cfg, err := LoadApp(WithConfigFile(cfgFile), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	if cfg.Auth.Token.Secret != "from-env" {
		t.Errorf("secret = %s, want from-env", cfg.Auth.Token.Secret)
	}
}

func TestLoadAppMissingSecret(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", `
base:
  name: vida-academica
`)

	if _, err := LoadApp(WithConfigFile(cfgFile), WithEnvFile(filepath.Join(dir, "missing.env"))); err == nil {
		t.Fatal("expected validation failure without token secret")
	}
}

func TestKeyVariants(t *testing.T) {
	variants := keyVariants("AUTH_TOKEN_SECRET")
	want := map[string]bool{
		"auth_token_secret": false,
		"auth.token.secret": false,
		"auth.token_secret": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("variant %s missing from %v", k, variants)
		}
	}
}
