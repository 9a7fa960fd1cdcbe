package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	VesselsClassifiedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_vessels_classified_total",
		Help: "Total number of vessel samples classified",
	})
	ViolationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_violations_total",
		Help: "Total detected violations by type and severity",
	}, []string{"type", "severity"})
	RuleFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_rule_failures_total",
		Help: "Total per-sample rule evaluation failures (non-fatal)",
	})
	BatchRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_batch_runs_total",
		Help: "Total batch runs by final state",
	}, []string{"state"})
	BatchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geofence_batch_duration_ms",
		Help:    "Batch classification duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	IngestCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_ingest_cycles_total",
		Help: "Total ingestion polling cycles by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		VesselsClassifiedTotal,
		ViolationsTotal,
		RuleFailuresTotal,
		BatchRunsTotal,
		BatchDurationMs,
		IngestCyclesTotal,
	)
}

// Handler exposes the prometheus registry as a gin handler
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
