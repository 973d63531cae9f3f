package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("ORDER_SEQ_TTL_SECONDS", "")
	t.Setenv("TERMINAL_ID", "")

	cfg := Load()
	if cfg.DataDir != "./data" {
		t.Fatalf("expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.OrderSeqTTLSeconds != 300 {
		t.Fatalf("expected default sequence TTL 300, got %d", cfg.OrderSeqTTLSeconds)
	}
	if cfg.TerminalID != "terminal-01" {
		t.Fatalf("expected default terminal id, got %q", cfg.TerminalID)
	}
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	t.Setenv("ORDER_SEQ_TTL_SECONDS", "-5")

	cfg := Load()
	if cfg.OrderSeqTTLSeconds != 300 {
		t.Fatalf("expected fallback TTL 300 for invalid value, got %d", cfg.OrderSeqTTLSeconds)
	}
}
