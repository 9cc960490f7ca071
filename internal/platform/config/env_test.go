package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int `env:"AGORA_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Addr    string        `env:"ADDR" envDefault:"localhost:8080"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"2s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("AGORA_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefixReadsPrefixedNames(t *testing.T) {
	t.Setenv("AGORA_WEB_ADDR", "0.0.0.0:9000")
	t.Setenv("AGORA_WEB_TIMEOUT", "5s")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, "AGORA_WEB_"); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Fatalf("Addr = %q, want %q", cfg.Addr, "0.0.0.0:9000")
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", cfg.Timeout)
	}
}

func TestParseEnvWithPrefixIgnoresUnprefixedNames(t *testing.T) {
	t.Setenv("ADDR", "ignored:1")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, "AGORA_WEB_"); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:8080" {
		t.Fatalf("Addr = %q, want default", cfg.Addr)
	}
}
