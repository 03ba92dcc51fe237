package shared

import (
	"time"
)

// ProbeResult is the outcome of one echo request.
//
// Latency is measured for dropped probes too: it holds the time spent waiting
// before the probe was given up on.
type ProbeResult struct {
	Seq     uint          `json:"seq"`
	Dropped bool          `json:"dropped"`
	Latency time.Duration `json:"-"`
	Peer    string        `json:"peer,omitempty"` // Source of the reply, empty if none arrived
	PeerPTR string        `json:"peer_ptr,omitempty"`
	TTL     int           `json:"ttl,omitempty"` // IPv4 only, 0 when unknown
	Bytes   int           `json:"bytes,omitempty"`
	Time    time.Time     `json:"timestamp"`
}

// LatencyMS returns the latency in milliseconds.
func (r ProbeResult) LatencyMS() float64 {
	return durationMS(r.Latency)
}

// RunInfo describes a run before its first probe is sent.
type RunInfo struct {
	Host        string        `json:"host"`
	Address     string        `json:"address"`
	Family      string        `json:"family"`
	PTR         string        `json:"ptr,omitempty"`
	Source      string        `json:"source,omitempty"`
	Interface   string        `json:"interface,omitempty"`
	PayloadSize uint          `json:"payload_size"`
	Count       uint          `json:"count"`
	Timeout     time.Duration `json:"-"`
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
