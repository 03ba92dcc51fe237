package output

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tkjaer/rping/internal/shared"
)

func TestNewJSONOutput_Stdout(t *testing.T) {
	output, err := NewJSONOutput("")
	if err != nil {
		t.Fatalf("NewJSONOutput() error = %v", err)
	}
	defer output.Close()

	if !output.toStdout {
		t.Error("NewJSONOutput(\"\") should output to stdout")
	}
	if output.file != os.Stdout {
		t.Error("NewJSONOutput(\"\") file should be os.Stdout")
	}
}

func TestNewJSONOutput_BadPath(t *testing.T) {
	if _, err := NewJSONOutput(filepath.Join(t.TempDir(), "missing", "out.json")); err == nil {
		t.Error("NewJSONOutput() expected error for missing directory")
	}
}

func TestJSONOutput_Records(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "run.json")

	output, err := NewJSONOutput(filename)
	if err != nil {
		t.Fatalf("NewJSONOutput() error = %v", err)
	}
	if output.toStdout {
		t.Error("NewJSONOutput() with filename should not output to stdout")
	}

	output.Start(shared.RunInfo{Host: "example.com", Address: "192.0.2.1", Family: "IPv4", PayloadSize: 56, Count: 2, Timeout: 1500 * time.Millisecond})
	output.ProbeComplete(shared.ProbeResult{Seq: 0, Latency: 1500 * time.Microsecond, Peer: "192.0.2.1", PeerPTR: "example.com", TTL: 57, Bytes: 64})
	output.ProbeComplete(shared.ProbeResult{Seq: 1, Dropped: true, Latency: 1500 * time.Millisecond})
	output.Complete(shared.RunSummary{Total: 2, Succeeded: 1, Failed: 1, LossPct: 50})
	if err := output.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	var records []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("json.Unmarshal(%q) error = %v", sc.Text(), err)
		}
		records = append(records, rec)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	wantTypes := []string{"start", "probe", "probe", "summary"}
	for i, want := range wantTypes {
		if records[i]["type"] != want {
			t.Errorf("record %d type = %v, want %s", i, records[i]["type"], want)
		}
	}

	if records[0]["timeout_ms"] != 1500.0 || records[0]["host"] != "example.com" {
		t.Errorf("start record = %v", records[0])
	}
	probe := records[1]
	if probe["latency_ms"] != 1.5 || probe["peer_ptr"] != "example.com" || probe["ttl"] != 57.0 || probe["address"] != "192.0.2.1" {
		t.Errorf("probe record = %v", probe)
	}
	if records[2]["dropped"] != true {
		t.Errorf("dropped record = %v", records[2])
	}
	if _, ok := records[2]["peer"]; ok {
		t.Errorf("dropped record should omit peer: %v", records[2])
	}
	summary := records[3]
	if summary["total"] != 2.0 || summary["loss_pct"] != 50.0 || summary["succeeded_pct"] != 50.0 {
		t.Errorf("summary record = %v", summary)
	}
}
