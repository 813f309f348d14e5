package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type serverConfig struct {
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
}

func (c *serverConfig) Validate() error {
	if c.Port <= 0 {
		return os.ErrInvalid
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg := serverConfig{Port: 8080, Token: "default"}
	path := writeConfig(t, "port: 9090\n")

	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d, want override", cfg.Port)
	}
	if cfg.Token != "default" {
		t.Errorf("token = %q, unset keys must keep their defaults", cfg.Token)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("WAYFARE_TEST_TOKEN", "from-env")
	cfg := serverConfig{Port: 8080}
	path := writeConfig(t, "token: ${WAYFARE_TEST_TOKEN}\n")

	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "from-env" {
		t.Errorf("token = %q", cfg.Token)
	}
}

func TestLoadRunsValidation(t *testing.T) {
	cfg := serverConfig{Port: 8080}
	path := writeConfig(t, "port: -1\n")

	err := Load(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "validation") {
		t.Errorf("err = %v, want validation failure", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg := serverConfig{Port: 8080}
	if err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Error("missing file must fail Load")
	}
}

func TestLoadOptionalMissingFileKeepsDefaults(t *testing.T) {
	cfg := serverConfig{Port: 8080, Token: "default"}
	if err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 || cfg.Token != "default" {
		t.Errorf("defaults clobbered: %+v", cfg)
	}

	// Defaults still go through validation.
	bad := serverConfig{Port: 0}
	if err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &bad); err == nil {
		t.Error("invalid defaults must fail LoadOptional")
	}
}

func TestLoadOptionalReadsExistingFile(t *testing.T) {
	cfg := serverConfig{Port: 8080}
	path := writeConfig(t, "port: 9090\n")

	if err := LoadOptional(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d", cfg.Port)
	}
}
