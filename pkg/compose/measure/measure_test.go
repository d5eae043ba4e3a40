package measure_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelab/go-compose/pkg/compose/measure"
)

func TestDefaultMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()

	mt := msr.AddMetric("get")
	require.NotNil(t, mt)

	// Adding the same name twice returns the existing metric.
	assert.Equal(t, mt, msr.AddMetric("get"))
	assert.Equal(t, mt, msr.GetMetric("get"))
	assert.Nil(t, msr.GetMetric("missing"))
	assert.Len(t, msr.AllMetrics(), 1)
}

func TestDefaultMetricDurations(t *testing.T) {
	t.Parallel()

	mt := measure.NewDefaultMeasure().AddMetric("get")

	assert.Zero(t, mt.AVGDuration())

	mt.AddDuration(2 * time.Second)
	mt.AddDuration(4 * time.Second)
	assert.Equal(t, 3*time.Second, mt.AVGDuration())
}

func TestDefaultMetricSteps(t *testing.T) {
	t.Parallel()

	mt := measure.NewDefaultMeasure().AddMetric("post_get")

	mt.AddStepDuration("old", 10*time.Millisecond)
	mt.AddStepDuration("old", 20*time.Millisecond)
	mt.AddStepDuration("custom", 5*time.Millisecond)

	avgs := mt.AVGStepDuration()
	assert.Equal(t, 15*time.Millisecond, avgs["old"])
	assert.Equal(t, 5*time.Millisecond, avgs["custom"])

	steps := mt.AllSteps()
	require.Contains(t, steps, "old")
	assert.Equal(t, int64(2), steps["old"].Total)
	assert.Equal(t, 30*time.Millisecond, steps["old"].Elapsed)
}
