package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/tkjaer/rping/internal/shared"
)

func TestMetricsOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rping.prom")
	m := NewMetricsOutput(path)

	m.Start(shared.RunInfo{Host: "example.com", Address: "192.0.2.1", Family: "IPv4"})
	m.ProbeComplete(shared.ProbeResult{Seq: 0, Latency: 2 * time.Millisecond, TTL: 57})
	m.ProbeComplete(shared.ProbeResult{Seq: 1, Dropped: true, Latency: time.Second})
	m.ProbeComplete(shared.ProbeResult{Seq: 2, Latency: 4 * time.Millisecond})
	m.Complete(shared.RunSummary{Total: 3, Succeeded: 2, Failed: 1, LossPct: 100.0 / 3, MaxLatency: 1000, MinLatency: 2, AverageLatency: 335.333})

	labels := func(k, v string) map[string]string {
		return map[string]string{"host": "example.com", "address": "192.0.2.1", "family": "IPv4", k: v}
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"success count", testutil.ToFloat64(m.probesTotal.With(labels("result", "success"))), 2},
		{"dropped count", testutil.ToFloat64(m.probesTotal.With(labels("result", "dropped"))), 1},
		{"reply ttl", testutil.ToFloat64(m.lastTTL.With(m.labels)), 57},
		{"max latency", testutil.ToFloat64(m.latency.With(labels("stat", "max"))), 1000},
		{"min latency", testutil.ToFloat64(m.latency.With(labels("stat", "min"))), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if loss := testutil.ToFloat64(m.loss.With(m.labels)); loss < 0.333 || loss > 0.334 {
		t.Errorf("loss ratio = %v, want ~0.333", loss)
	}
	if n := testutil.CollectAndCount(m.rtt); n != 1 {
		t.Errorf("rtt histogram series = %d, want 1", n)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, name := range []string{
		"rping_probes_total",
		"rping_rtt_milliseconds_bucket",
		"rping_loss_ratio",
		"rping_latency_milliseconds",
		"rping_last_run_timestamp_seconds",
	} {
		if !strings.Contains(string(data), name) {
			t.Errorf("metrics file missing %s", name)
		}
	}
}

func TestMetricsOutput_BadPath(t *testing.T) {
	m := NewMetricsOutput(filepath.Join(t.TempDir(), "missing", "rping.prom"))
	m.Start(shared.RunInfo{Host: "h", Address: "192.0.2.1", Family: "IPv4"})
	m.Complete(shared.RunSummary{Total: 1, Succeeded: 1})
	if err := m.Close(); err == nil {
		t.Error("Close() expected error for missing directory")
	}
}

func TestMetricsOutput_IncompleteRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rping.prom")
	m := NewMetricsOutput(path)
	m.Start(shared.RunInfo{Host: "h", Address: "192.0.2.1", Family: "IPv4"})

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("metrics file written for a run that never completed: %v", err)
	}
}
