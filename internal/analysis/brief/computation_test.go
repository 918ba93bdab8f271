package brief

import (
	"math"
	"testing"

	"hypotest/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_KnownSamples(t *testing.T) {
	baseline, err := Describe([]float64{10, 12, 11, 13, 9})
	require.NoError(t, err)
	assert.InDelta(t, 11.0, baseline.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), baseline.StdDev, 1e-12)
	assert.Equal(t, 5, baseline.N)
	assert.Equal(t, 9.0, baseline.Min)
	assert.Equal(t, 13.0, baseline.Max)
	assert.Equal(t, 11.0, baseline.Median)

	enhanced, err := Describe([]float64{15, 16, 14, 17, 15})
	require.NoError(t, err)
	assert.InDelta(t, 15.4, enhanced.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.3), enhanced.StdDev, 1e-12)
}

// The n-1 estimator, not the population variance
func TestDescribe_UsesSampleVariance(t *testing.T) {
	d, err := Describe([]float64{1, 2})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5), d.StdDev, 1e-15)
}

func TestDescribe_TooSmall(t *testing.T) {
	for _, sample := range [][]float64{nil, {}, {42}} {
		_, err := Describe(sample)
		if !core.IsInvalidInput(err) {
			t.Fatalf("Describe(%v): expected invalid input, got %v", sample, err)
		}
	}
}

func TestDescribe_NonNumeric(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := DescribeField("baseline", []float64{1, bad, 3})
		require.Error(t, err)
		assert.True(t, core.IsInvalidInput(err))
		assert.Contains(t, err.Error(), "baseline[1]")
	}
}

func TestDescribe_DoesNotMutateInput(t *testing.T) {
	sample := []float64{5, 1, 4, 2, 3}
	_, err := Describe(sample)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, sample)
}

// Values without an exact binary form must still give zero spread
func TestDescribe_ConstantSampleHasZeroStdDev(t *testing.T) {
	for _, v := range []float64{0.1, 0.2, 0.7, 0.3, 1.1, 2.2, -3.3, 1e-300, 1e300} {
		d, err := Describe([]float64{v, v, v, v, v, v, v})
		require.NoError(t, err)
		if d.StdDev != 0 {
			t.Fatalf("constant %v: expected zero stddev, got %v", v, d.StdDev)
		}
		assert.Equal(t, v, d.Mean)
		assert.Equal(t, v, d.Median)
	}
}

func TestDescribe_ScaleInvariant(t *testing.T) {
	sample := []float64{1, 2, 3, 5}
	ref, err := Describe(sample)
	require.NoError(t, err)

	for _, k := range []float64{1e-160, 1e-300, 1e200, 1e300} {
		scaled := make([]float64, len(sample))
		for i, v := range sample {
			scaled[i] = v * k
		}
		d, err := Describe(scaled)
		require.NoError(t, err, "scale %g", k)
		assert.InEpsilon(t, ref.Mean, d.Mean/k, 1e-12, "scale %g", k)
		assert.InEpsilon(t, ref.StdDev, d.StdDev/k, 1e-12, "scale %g", k)
		assert.False(t, math.IsInf(d.StdDev, 0) || d.StdDev == 0, "scale %g", k)
	}
}
