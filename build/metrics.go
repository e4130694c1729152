package build

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records build outcomes.
type Metrics struct {
	articles *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the build collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		articles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pressroom_build_articles_total",
			Help: "Articles processed by the static build, by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pressroom_build_duration_seconds",
			Help:    "Wall time of complete static builds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.articles, m.duration)
	return m
}

func (m *Metrics) article(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.articles.WithLabelValues(result).Inc()
}

func (m *Metrics) observe(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}
