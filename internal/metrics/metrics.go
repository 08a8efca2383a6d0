// Package metrics exposes the Prometheus collectors of the storefront API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors reported by the image, reconcile and PIX paths.
type Metrics struct {
	imageOperations *prometheus.CounterVec
	partialFailures *prometheus.CounterVec
	orphans         prometheus.Gauge
	dangling        prometheus.Gauge
	pixCharges      *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the instance registered with the global Prometheus registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNewMetrics registers a fresh set of collectors with reg and panics on
// duplicate registration.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		imageOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitrine",
			Name:      "image_operations_total",
			Help:      "Product image attach/remove requests by outcome.",
		}, []string{"operation", "result"}),
		partialFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitrine",
			Name:      "image_partial_failures_total",
			Help:      "Image requests that failed in the object store after the produto row was written.",
		}, []string{"operation"}),
		orphans: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vitrine",
			Name:      "reconcile_orphans",
			Help:      "Objects under the image prefix referenced by no product slot at the last reconcile.",
		}),
		dangling: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vitrine",
			Name:      "reconcile_dangling",
			Help:      "Product slots referencing a missing object at the last reconcile.",
		}),
		pixCharges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitrine",
			Name:      "pix_charges_total",
			Help:      "PIX charge attempts by outcome.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.imageOperations, m.partialFailures, m.orphans, m.dangling, m.pixCharges)
	return m
}

func (m *Metrics) ImageOperation(operation, result string) {
	if m == nil {
		return
	}
	m.imageOperations.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) PartialFailure(operation string) {
	if m == nil {
		return
	}
	m.partialFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) Reconciled(orphans, dangling int) {
	if m == nil {
		return
	}
	m.orphans.Set(float64(orphans))
	m.dangling.Set(float64(dangling))
}

func (m *Metrics) PixCharge(result string) {
	if m == nil {
		return
	}
	m.pixCharges.WithLabelValues(result).Inc()
}
