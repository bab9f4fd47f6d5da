package main

import "testing"

// TestResolveBackend verifies the backend selection chain: the flag wins,
// an unset flag falls back to METRICS_BACKEND, and with neither set the
// metrics stay disabled.
func TestResolveBackend(t *testing.T) {
	t.Setenv("METRICS_BACKEND", "")
	if got := resolveBackend(""); got != "none" {
		t.Fatalf("resolveBackend with nothing set = %q, want none", got)
	}

	t.Setenv("METRICS_BACKEND", "pushgateway")
	if got := resolveBackend(""); got != "pushgateway" {
		t.Fatalf("resolveBackend from env = %q, want pushgateway", got)
	}
	if got := resolveBackend("none"); got != "none" {
		t.Fatalf("flag should override env, got %q", got)
	}
}
