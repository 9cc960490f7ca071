package cmd

import (
	"context"
	"errors"
	"testing"
)

type testConfig struct {
	Address string `env:"ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"MODE" envDefault:"server"`
}

type unprefixedConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
}

func TestParseConfigReadsPrefixedEnv(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("CMD_TEST_MODE", "env-mode")

	cfg := testConfig{}
	if err := ParseConfig(&cfg, "CMD_TEST_"); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	if cfg.Address != "env:9000" {
		t.Fatalf("expected env address, got %q", cfg.Address)
	}
	if cfg.Mode != "env-mode" {
		t.Fatalf("expected env mode, got %q", cfg.Mode)
	}
}

func TestParseConfigWithoutPrefix(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "plain:9000")

	cfg := unprefixedConfig{}
	if err := ParseConfig(&cfg, ""); err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Address != "plain:9000" {
		t.Fatalf("expected env address, got %q", cfg.Address)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	var cfg *testConfig
	if err := ParseConfig(cfg, "X_"); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestRunWithTelemetryRunsLoop(t *testing.T) {
	t.Setenv("AGORA_OTEL_ENDPOINT", "")
	t.Setenv("AGORA_OTEL_ENABLED", "true")

	sentinel := errors.New("stop")
	err := RunWithTelemetry(context.Background(), ServiceWeb, func(context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunWithTelemetry() error = %v, want %v", err, sentinel)
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceWeb, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}
