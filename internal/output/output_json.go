package output

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/tkjaer/rping/internal/shared"
)

// JSON record types, one object per line.
const (
	recordStart   = "start"
	recordProbe   = "probe"
	recordSummary = "summary"
)

type startRecord struct {
	Type string `json:"type"`
	shared.RunInfo
	TimeoutMS float64 `json:"timeout_ms"`
}

type probeRecord struct {
	Type    string `json:"type"`
	Host    string `json:"host"`
	Address string `json:"address"`
	shared.ProbeResult
	LatencyMS float64 `json:"latency_ms"`
}

type summaryRecord struct {
	Type    string `json:"type"`
	Host    string `json:"host"`
	Address string `json:"address"`
	shared.RunSummary
	SucceededPct float64 `json:"succeeded_pct"`
}

// JSONOutput writes run records as JSON lines to a file or stdout
type JSONOutput struct {
	mu       sync.Mutex
	file     *os.File
	enc      *json.Encoder
	toStdout bool
	info     shared.RunInfo
}

func NewJSONOutput(filename string) (*JSONOutput, error) {
	if filename == "" {
		return &JSONOutput{
			file:     os.Stdout,
			enc:      json.NewEncoder(os.Stdout),
			toStdout: true,
		}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONOutput{
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

func (j *JSONOutput) Start(info shared.RunInfo) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.info = info
	_ = j.enc.Encode(startRecord{
		Type:      recordStart,
		RunInfo:   info,
		TimeoutMS: float64(info.Timeout.Microseconds()) / 1000,
	})
}

func (j *JSONOutput) ProbeComplete(result shared.ProbeResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.enc.Encode(probeRecord{
		Type:        recordProbe,
		Host:        j.info.Host,
		Address:     j.info.Address,
		ProbeResult: result,
		LatencyMS:   result.LatencyMS(),
	})
}

func (j *JSONOutput) Complete(summary shared.RunSummary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.enc.Encode(summaryRecord{
		Type:         recordSummary,
		Host:         j.info.Host,
		Address:      j.info.Address,
		RunSummary:   summary,
		SucceededPct: summary.SucceededPct(),
	})
}

func (j *JSONOutput) Close() error {
	if j.toStdout {
		return nil
	}
	return j.file.Close()
}
