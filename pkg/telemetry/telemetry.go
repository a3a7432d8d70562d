// Package telemetry exports engine and evaluation state as Prometheus
// metrics. Engines expose their adaptive state as named measurements; the
// collector mirrors them into a labeled gauge family.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
)

// Collector holds the metric families for one process. All families carry an
// "engine" label so several engines can report side by side.
type Collector struct {
	instances    *prometheus.CounterVec
	acquisitions *prometheus.CounterVec
	accuracy     *prometheus.GaugeVec
	state        *prometheus.GaugeVec
}

// NewCollector registers the metric families with the given registerer. A nil
// registerer falls back to the default Prometheus registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		instances: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamal_instances_processed_total",
				Help: "Stream instances handed to the engine",
			},
			[]string{"engine"},
		),
		acquisitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamal_label_acquisitions_total",
				Help: "Labels the engine decided to request",
			},
			[]string{"engine"},
		),
		accuracy: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "streamal_prequential_accuracy",
				Help: "Cumulative test-then-train accuracy of the run",
			},
			[]string{"engine"},
		),
		state: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "streamal_engine_state",
				Help: "Engine-reported adaptive state, one series per measurement",
			},
			[]string{"engine", "measurement"},
		),
	}
}

// AddInstances counts processed stream instances.
func (c *Collector) AddInstances(engine string, n int) {
	c.instances.WithLabelValues(engine).Add(float64(n))
}

// AddAcquisitions counts acquired labels, typically a drained counter.
func (c *Collector) AddAcquisitions(engine string, n int) {
	c.acquisitions.WithLabelValues(engine).Add(float64(n))
}

// SetAccuracy publishes the run's cumulative accuracy.
func (c *Collector) SetAccuracy(engine string, accuracy float64) {
	c.accuracy.WithLabelValues(engine).Set(accuracy)
}

// SetMeasurements mirrors the engine's current measurement set.
func (c *Collector) SetMeasurements(engine string, measurements []core.Measurement) {
	for _, m := range measurements {
		c.state.WithLabelValues(engine, m.Name).Set(m.Value)
	}
}
