package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AlignRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mfa_align_requests_total",
		Help: "Alignment requests by language and outcome",
	}, []string{"language", "status"})

	AlignDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mfa_align_duration_seconds",
		Help:    "End-to-end alignment latency including staging and parsing",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
	})

	ToolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mfa_tool_duration_seconds",
		Help:    "Wall time of the external aligner process",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
	}, []string{"outcome"})

	BoundariesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mfa_boundaries_total",
		Help: "Boundaries returned to clients",
	}, []string{"kind"})

	WorkspacesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mfa_workspaces_active",
		Help: "Temporary alignment workspaces currently on disk",
	})
)
