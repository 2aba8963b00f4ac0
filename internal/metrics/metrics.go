// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	AnalysesTotal   prometheus.Counter
	CacheHits       prometheus.Counter
	DetectorSkips   *prometheus.CounterVec
	ProviderErrors  prometheus.Counter
	SessionRequests prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		AnalysesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coach_analyses_total",
			Help: "Matches run through the full analysis pipeline.",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coach_analysis_cache_hits_total",
			Help: "Analysis requests served from the stored result.",
		}),
		DetectorSkips: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coach_detector_skips_total",
			Help: "Detector components sidelined during an analysis.",
		}, []string{"component"}),
		ProviderErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coach_provider_errors_total",
			Help: "Match-data provider calls that failed after retries.",
		}),
		SessionRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coach_session_requests_total",
			Help: "Session/tilt report requests served.",
		}),
	}
}

// Handler serves the default registry, which promauto registers into.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
