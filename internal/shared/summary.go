package shared

import (
	"errors"
)

// ErrNoResults is returned when asked to summarize an empty run.
var ErrNoResults = errors.New("no probe results to summarize")

// RunSummary holds the counts and latency statistics of a run.
// Latencies are in milliseconds.
type RunSummary struct {
	Total          uint    `json:"total"`
	Succeeded      uint    `json:"succeeded"`
	Failed         uint    `json:"failed"`
	LossPct        float64 `json:"loss_pct"`
	MaxLatency     float64 `json:"max_latency_ms"`
	MinLatency     float64 `json:"min_latency_ms"`
	AverageLatency float64 `json:"average_latency_ms"`
}

// SucceededPct returns the percentage of probes that got a reply.
func (s RunSummary) SucceededPct() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total) * 100
}

// Aggregate folds an ordered sequence of results into a RunSummary.
//
// Every latency, dropped or not, counts towards the maximum and the average.
// The minimum only moves to a latency greater than zero, unless it is still
// unset, so probes that never got a timing cannot pin it at zero.
func Aggregate(results []ProbeResult) (RunSummary, error) {
	if len(results) == 0 {
		return RunSummary{}, ErrNoResults
	}

	var s RunSummary
	var sum float64
	for _, r := range results {
		s.Total++
		if r.Dropped {
			s.Failed++
		} else {
			s.Succeeded++
		}

		ms := r.LatencyMS()
		if ms > s.MaxLatency {
			s.MaxLatency = ms
		}
		if (ms < s.MinLatency && ms > 0) || s.MinLatency == 0 {
			s.MinLatency = ms
		}
		sum += ms
	}

	s.AverageLatency = sum / float64(s.Total)
	s.LossPct = calculateLossPct(s.Failed, s.Succeeded)
	return s, nil
}

// calculateLossPct calculates the loss percentage
func calculateLossPct(lost, received uint) float64 {
	total := lost + received
	if total == 0 {
		return 0
	}
	return float64(lost) / float64(total) * 100
}
