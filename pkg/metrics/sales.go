package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SaleMetrics records the outcome of sale completions.
type SaleMetrics struct {
	duration  prometheus.Histogram
	completed prometheus.Counter
	failed    *prometheus.CounterVec
}

// NewSaleMetrics registers the sale metrics on the provided registerer.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "homescout_sale_duration_seconds",
		Help:    "Duration of sale completion attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "homescout_sales_completed_total",
		Help: "Sales committed with their payments.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "homescout_sales_failed_total",
		Help: "Sale completion attempts that did not commit, by error code.",
	}, []string{"code"})
	reg.MustRegister(duration, completed, failed)
	return &SaleMetrics{duration: duration, completed: completed, failed: failed}
}

// ObserveDuration records how long one attempt took.
func (s *SaleMetrics) ObserveDuration(d time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.Observe(d.Seconds())
}

// IncCompleted counts a committed sale.
func (s *SaleMetrics) IncCompleted() {
	if s == nil || s.completed == nil {
		return
	}
	s.completed.Inc()
}

// IncFailed counts a rejected or rolled back sale.
func (s *SaleMetrics) IncFailed(code string) {
	if s == nil || s.failed == nil {
		return
	}
	s.failed.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
