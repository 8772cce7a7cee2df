package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	renderJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "render_jobs_total",
			Help: "Terminal job results per task kind and outcome.",
		},
		[]string{"kind", "success"},
	)

	renderAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "render_attempts_total",
			Help: "Renderer subprocess invocations per task kind, including retries.",
		},
		[]string{"kind"},
	)

	renderAttemptSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "render_attempt_duration_seconds",
			Help:    "Renderer subprocess wall-clock duration distribution.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"kind", "success"},
	)

	assetsResolvedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assets_resolved_total",
			Help: "Assets resolved to usable local files at run start.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			renderJobsTotal, renderAttemptsTotal, renderAttemptSeconds,
			assetsResolvedTotal,
		)
	})
}

func IncJobResult(kind string, success bool) {
	renderJobsTotal.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}

func IncAttempt(kind string) {
	renderAttemptsTotal.WithLabelValues(kind).Inc()
}

func ObserveAttempt(kind string, d time.Duration, success bool) {
	renderAttemptSeconds.WithLabelValues(kind, strconv.FormatBool(success)).Observe(d.Seconds())
}

func AddAssetsResolved(n int) {
	assetsResolvedTotal.Add(float64(n))
}
