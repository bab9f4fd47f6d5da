package prompush

import (
	"testing"

	"ipldw/internal/metrics"
)

// TestNewBackend_RequiresGateway verifies the URL guard.
func TestNewBackend_RequiresGateway(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend("etl", ""); err == nil {
		t.Fatalf("expected error for empty gateway URL")
	}
}

// TestBackend_CollectsMetrics verifies the named metrics land in the private
// registry with the expected label sets.
func TestBackend_CollectsMetrics(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("etl", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend error: %v", err)
	}

	b.IncCounter("warehouse_stage_total", 1, metrics.Labels{"stage": "facts", "status": "success"})
	b.IncCounter("warehouse_rows_total", 42, metrics.Labels{"kind": "fact_rows"})
	b.IncCounter("warehouse_batches_total", 2, nil)
	b.IncCounter("unknown_metric", 5, nil)
	b.ObserveDuration("warehouse_stage_duration_seconds", 1.5, metrics.Labels{"stage": "facts", "status": "success"})
	b.ObserveDuration("unknown_duration", 1.0, nil)

	families, err := b.reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}

	got := map[string]bool{}
	for _, fam := range families {
		got[fam.GetName()] = true
		switch fam.GetName() {
		case "warehouse_rows_total":
			m := fam.GetMetric()
			if len(m) != 1 || m[0].GetCounter().GetValue() != 42 {
				t.Fatalf("rows counter = %v, want 42", m)
			}
		case "warehouse_batches_total":
			m := fam.GetMetric()
			if len(m) != 1 || m[0].GetCounter().GetValue() != 2 {
				t.Fatalf("batch counter = %v, want 2", m)
			}
		case "warehouse_stage_duration_seconds":
			m := fam.GetMetric()
			if len(m) != 1 || m[0].GetSummary().GetSampleCount() != 1 {
				t.Fatalf("stage summary = %v, want one sample", m)
			}
		}
	}
	for _, name := range []string{
		"warehouse_stage_total", "warehouse_stage_duration_seconds",
		"warehouse_rows_total", "warehouse_batches_total",
	} {
		if !got[name] {
			t.Fatalf("metric %s not collected (got %v)", name, got)
		}
	}
	if got["unknown_metric"] || got["unknown_duration"] {
		t.Fatalf("unknown metric names must be ignored")
	}
}
