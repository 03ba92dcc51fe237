package output

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tkjaer/rping/internal/shared"
)

// MetricsOutput collects a run into a private registry and writes it as a
// Prometheus text exposition file when the run completes, ready for the
// node_exporter textfile collector.
type MetricsOutput struct {
	path     string
	registry *prometheus.Registry
	labels   prometheus.Labels
	complete bool

	probesTotal *prometheus.CounterVec
	rtt         *prometheus.HistogramVec
	lastTTL     *prometheus.GaugeVec
	loss        *prometheus.GaugeVec
	latency     *prometheus.GaugeVec
	lastRun     *prometheus.GaugeVec
}

var (
	metricLabels       = []string{"host", "address", "family"}
	metricResultLabels = []string{"host", "address", "family", "result"}
	metricStatLabels   = []string{"host", "address", "family", "stat"}
)

func NewMetricsOutput(path string) *MetricsOutput {
	m := &MetricsOutput{
		path:     path,
		registry: prometheus.NewRegistry(),
		probesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rping_probes_total",
				Help: "Echo requests sent, by result",
			},
			metricResultLabels,
		),
		rtt: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rping_rtt_milliseconds",
				Help:    "Round-trip time of answered echo requests in milliseconds",
				Buckets: prometheus.ExponentialBuckets(0.125, 2, 16),
			},
			metricLabels,
		),
		lastTTL: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rping_reply_ttl",
				Help: "IP TTL of the last IPv4 echo reply",
			},
			metricLabels,
		),
		loss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rping_loss_ratio",
				Help: "Share of probes that got no valid reply (0-1)",
			},
			metricLabels,
		),
		latency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rping_latency_milliseconds",
				Help: "Run latency statistics in milliseconds",
			},
			metricStatLabels,
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rping_last_run_timestamp_seconds",
				Help: "Unix time the last run completed",
			},
			metricLabels,
		),
	}
	m.registry.MustRegister(m.probesTotal, m.rtt, m.lastTTL, m.loss, m.latency, m.lastRun)
	return m
}

func (m *MetricsOutput) Start(info shared.RunInfo) {
	m.labels = prometheus.Labels{
		"host":    info.Host,
		"address": info.Address,
		"family":  info.Family,
	}
}

func (m *MetricsOutput) with(extra, value string) prometheus.Labels {
	l := prometheus.Labels{extra: value}
	for k, v := range m.labels {
		l[k] = v
	}
	return l
}

func (m *MetricsOutput) ProbeComplete(result shared.ProbeResult) {
	if result.Dropped {
		m.probesTotal.With(m.with("result", "dropped")).Inc()
		return
	}
	m.probesTotal.With(m.with("result", "success")).Inc()
	m.rtt.With(m.labels).Observe(result.LatencyMS())
	if result.TTL > 0 {
		m.lastTTL.With(m.labels).Set(float64(result.TTL))
	}
}

func (m *MetricsOutput) Complete(summary shared.RunSummary) {
	m.loss.With(m.labels).Set(summary.LossPct / 100)
	for stat, v := range map[string]float64{
		"max": summary.MaxLatency,
		"min": summary.MinLatency,
		"avg": summary.AverageLatency,
	} {
		m.latency.With(m.with("stat", stat)).Set(v)
	}
	m.lastRun.With(m.labels).SetToCurrentTime()
	m.complete = true
}

// Close writes the registry to the metrics file. A run that never
// completed leaves any existing file untouched.
func (m *MetricsOutput) Close() error {
	if !m.complete {
		return nil
	}
	return prometheus.WriteToTextfile(m.path, m.registry)
}
