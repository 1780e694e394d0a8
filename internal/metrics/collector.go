// Package metrics exports ledger activity as Prometheus counters.
package metrics

import (
	"net/http"
	"strings"

	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agentmeter"

// Collector implements ledger.Observer
type Collector struct {
	registry *prometheus.Registry

	calls *prometheus.CounterVec
	cost  *prometheus.CounterVec
	units *prometheus.CounterVec
}

// NewCollector registers the ledger metrics on registry. A nil registry gets
// a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Billable calls recorded, by service and model.",
			},
			[]string{"service", "model"},
		),
		cost: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cost_total",
				Help:      "Accumulated cost in currency units, by service and model.",
			},
			[]string{"service", "model"},
		),
		units: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "units_total",
				Help:      "Usage units recorded, by service, model and direction.",
			},
			[]string{"service", "model", "direction"},
		),
	}

	registry.MustRegister(c.calls, c.cost, c.units)
	return c
}

// OnRecord counts one ledger record. Prometheus counters cannot go down, so
// negative costs and unit counts are not added.
func (c *Collector) OnRecord(record model.CallRecord) {
	service, modelName := labelValues(record)

	c.calls.WithLabelValues(service, modelName).Inc()
	if record.Cost > 0 {
		c.cost.WithLabelValues(service, modelName).Add(record.Cost)
	}
	if record.InputUnits > 0 {
		c.units.WithLabelValues(service, modelName, "input").Add(float64(record.InputUnits))
	}
	if record.OutputUnits > 0 {
		c.units.WithLabelValues(service, modelName, "output").Add(float64(record.OutputUnits))
	}
}

// Handler serves the collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// labelValues lowercases service and model so label sets match rate keys
func labelValues(record model.CallRecord) (string, string) {
	service, modelName, _ := strings.Cut(record.Key(), "/")
	return service, modelName
}
