package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
)

func TestCollectorTracksRunProgress(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.AddInstances("weighting", 100)
	c.AddInstances("weighting", 50)
	c.AddAcquisitions("weighting", 7)
	c.SetAccuracy("weighting", 0.83)

	assert.Equal(t, 150.0, testutil.ToFloat64(c.instances.WithLabelValues("weighting")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.acquisitions.WithLabelValues("weighting")))
	assert.Equal(t, 0.83, testutil.ToFloat64(c.accuracy.WithLabelValues("weighting")))
}

func TestCollectorMirrorsMeasurements(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SetMeasurements("ensemble", []core.Measurement{
		{Name: "uncertainty threshold", Value: 0.75},
		{Name: "num ensemble members", Value: 3},
	})
	c.SetMeasurements("ensemble", []core.Measurement{
		{Name: "uncertainty threshold", Value: 0.8},
	})

	assert.Equal(t, 0.8, testutil.ToFloat64(c.state.WithLabelValues("ensemble", "uncertainty threshold")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.state.WithLabelValues("ensemble", "num ensemble members")))
}

func TestCollectorKeepsEnginesApart(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.AddAcquisitions("weighting", 2)
	c.AddAcquisitions("ensemble", 5)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.acquisitions.WithLabelValues("weighting")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.acquisitions.WithLabelValues("ensemble")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
