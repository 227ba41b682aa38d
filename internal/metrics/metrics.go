package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	toolReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolbench",
			Name:      "tool_requests_total",
			Help:      "Total PDF tool requests by tool and result",
		},
		[]string{"tool", "result"},
	)

	toolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "toolbench",
			Name:      "tool_duration_seconds",
			Help:      "Duration of PDF tool operations by tool",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	calcReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolbench",
			Name:      "calculator_requests_total",
			Help:      "Total calculator requests by calculator",
		},
		[]string{"calculator"},
	)

	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolbench",
			Name:      "uploads_total",
			Help:      "Total uploads by result (accepted, rejected, rate_limited)",
		},
		[]string{"result"},
	)

	uploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "toolbench",
			Name:      "upload_bytes_total",
			Help:      "Total bytes accepted through upload",
		},
	)

	pagesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "toolbench",
			Name:      "pages_processed_total",
			Help:      "Total document pages written by the PDF tools",
		},
	)

	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolbench",
			Name:      "jobs_total",
			Help:      "Background jobs by result (success, error, dlq)",
		},
		[]string{"result"},
	)

	queueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "toolbench",
			Name:      "queue_depth",
			Help:      "Queue depth gauges for stream and dlq",
		},
		[]string{"type"},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(toolReqs, toolDuration, calcReqs, uploadsTotal, uploadBytes, pagesProcessed, jobsTotal, queueDepth)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveTool(tool, result string, dur time.Duration) {
	toolReqs.WithLabelValues(tool, result).Inc()
	toolDuration.WithLabelValues(tool).Observe(dur.Seconds())
}

func IncCalculator(name string) { calcReqs.WithLabelValues(name).Inc() }
func IncUpload(result string)   { uploadsTotal.WithLabelValues(result).Inc() }
func AddUploadBytes(n int64)    { uploadBytes.Add(float64(n)) }
func AddPagesProcessed(n int)   { pagesProcessed.Add(float64(n)) }
func IncJob(result string)      { jobsTotal.WithLabelValues(result).Inc() }

func SetQueueDepth(kind string, v int64) { queueDepth.WithLabelValues(kind).Set(float64(v)) }
