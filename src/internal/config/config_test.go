package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SESSION_TIMEOUT_TICKS",
		"TICK_INTERVAL",
		"LOAN_APPROVAL_DELAY",
		"LOAN_COLLATERAL_RATIO",
		"PIN_HASH_COST",
		"LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.SessionTimeoutTicks != 300 {
		t.Fatalf("expected 300 ticks, got %d", cfg.SessionTimeoutTicks)
	}
	if cfg.TickInterval != time.Second {
		t.Fatalf("expected 1s tick interval, got %s", cfg.TickInterval)
	}
	if cfg.LoanApprovalDelay != 2500*time.Millisecond {
		t.Fatalf("expected 2.5s loan delay, got %s", cfg.LoanApprovalDelay)
	}
	if !cfg.LoanCollateralRatio.Equal(decimal.RequireFromString("0.1")) {
		t.Fatalf("expected ratio 0.1, got %s", cfg.LoanCollateralRatio)
	}
	if cfg.PinHashCost != bcrypt.DefaultCost {
		t.Fatalf("expected default bcrypt cost, got %d", cfg.PinHashCost)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info level, got %s", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TIMEOUT_TICKS", "120")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("LOAN_APPROVAL_DELAY", "0s")
	t.Setenv("LOAN_COLLATERAL_RATIO", "0.25")
	t.Setenv("PIN_HASH_COST", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.SessionTimeoutTicks != 120 || cfg.TickInterval != 250*time.Millisecond || cfg.LoanApprovalDelay != 0 {
		t.Fatalf("unexpected timing config %+v", cfg)
	}
	if !cfg.LoanCollateralRatio.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("expected ratio 0.25, got %s", cfg.LoanCollateralRatio)
	}
	if cfg.PinHashCost != 4 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SESSION_TIMEOUT_TICKS": "0",
		"TICK_INTERVAL":         "soon",
		"LOAN_APPROVAL_DELAY":   "-1s",
		"LOAN_COLLATERAL_RATIO": "ten percent",
		"PIN_HASH_COST":         "99",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
