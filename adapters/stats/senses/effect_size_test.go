package senses

import (
	"math"
	"testing"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal/analysis/brief"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCohensD_KnownScenario(t *testing.T) {
	d1, err := brief.Describe(baselineScores)
	require.NoError(t, err)
	d2, err := brief.Describe(enhancedScores)
	require.NoError(t, err)

	res, err := EffectSizeFromDescriptive(d1, d2)
	require.NoError(t, err)
	assert.InDelta(t, 3.1920955004840517, res.CohensD, 1e-9)
	assert.Equal(t, stats.EffectLarge, res.Interpretation)
}

func TestCohensD_Symmetric(t *testing.T) {
	cases := [][4]float64{
		{11, 15.4, 1.58, 1.14},
		{-3, 2, 0.5, 4},
		{100, 100.1, 10, 0},
	}
	for _, c := range cases {
		ab, err := CohensD(c[0], c[1], c[2], c[3])
		require.NoError(t, err)
		ba, err := CohensD(c[1], c[0], c[3], c[2])
		require.NoError(t, err)
		if ab != ba {
			t.Fatalf("CohensD not symmetric for %v: %v vs %v", c, ab, ba)
		}
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

func TestCohensD_PooledStd(t *testing.T) {
	d, err := CohensD(0, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)

	// sqrt((9+16)/2) = sqrt(12.5)
	d, err = CohensD(10, 5, 3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 5/math.Sqrt(12.5), d, 1e-15)
}

func TestCohensD_ZeroSpreadIsDegenerate(t *testing.T) {
	_, err := CohensD(5, 7, 0, 0)
	if !core.IsDegenerateInput(err) {
		t.Fatalf("expected degenerate input for different means, got %v", err)
	}

	// Equal means with no spread is still degenerate, never a silent 0 or NaN
	_, err = CohensD(5, 5, 0, 0)
	if !core.IsDegenerateInput(err) {
		t.Fatalf("expected degenerate input for equal means, got %v", err)
	}
}

func TestCohensD_ConstantSamplesScenario(t *testing.T) {
	d1, err := brief.Describe([]float64{5, 5, 5, 5})
	require.NoError(t, err)
	d2, err := brief.Describe([]float64{5, 5, 5, 5})
	require.NoError(t, err)

	_, err = EffectSizeFromDescriptive(d1, d2)
	assert.True(t, core.IsDegenerateInput(err))
}

func TestEffectSize_NonIntegerConstantsAreDegenerate(t *testing.T) {
	for _, p := range [][2]float64{{0.1, 0.2}, {0.7, 0.3}, {1.1, 2.2}} {
		d1, err := brief.Describe([]float64{p[0], p[0], p[0]})
		require.NoError(t, err)
		d2, err := brief.Describe([]float64{p[1], p[1], p[1], p[1], p[1], p[1], p[1]})
		require.NoError(t, err)

		_, err = EffectSizeFromDescriptive(d1, d2)
		if !core.IsDegenerateInput(err) {
			t.Fatalf("constants %v vs %v: expected degenerate input, got %v", p[0], p[1], err)
		}
	}
}

func TestCohensD_ExtremeMagnitudes(t *testing.T) {
	for _, k := range []float64{1e-170, 1e170, 1e300} {
		d, err := CohensD(0, 3*k, 3*k, 4*k)
		require.NoError(t, err, "scale %g", k)
		assert.InDelta(t, 3/math.Sqrt(12.5), d, 1e-12, "scale %g", k)
	}
}

func TestCohensD_InvalidInput(t *testing.T) {
	_, err := CohensD(math.NaN(), 1, 1, 1)
	assert.True(t, core.IsInvalidInput(err))
	_, err = CohensD(0, 1, -1, 1)
	assert.True(t, core.IsInvalidInput(err))
	_, err = CohensD(0, 1, 1, math.Inf(1))
	assert.True(t, core.IsInvalidInput(err))
}

func TestInterpretEffectSize_Thresholds(t *testing.T) {
	tests := []struct {
		d    float64
		want stats.EffectInterpretation
	}{
		{0, stats.EffectNegligible},
		{0.19999, stats.EffectNegligible},
		{0.2, stats.EffectSmall},
		{0.49999, stats.EffectSmall},
		{0.5, stats.EffectMedium},
		{0.79999, stats.EffectMedium},
		{0.8, stats.EffectLarge},
		{3.19, stats.EffectLarge},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InterpretEffectSize(tt.d), "d=%v", tt.d)
	}
}
