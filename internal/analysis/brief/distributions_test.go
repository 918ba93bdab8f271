package brief

import (
	"math"
	"testing"

	"hypotest/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestTTestPValue_ReferenceTable(t *testing.T) {
	sd := NewDistributions()

	tests := []struct {
		t, df, want float64
	}{
		{2.5, 20, 0.021233545439132476},
		{2.0, 10, 0.07338803477074045},
		{3.9703446152237674, 6, 0.0073640592242113214},
		{3.9703446152237674, 5.584615384615385, 0.0085128631313781695},
		{-2.5, 20, 0.021233545439132476},
		{0, 7, 1},
	}

	for _, tt := range tests {
		got, err := sd.TTestPValue(tt.t, tt.df)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "t=%v df=%v", tt.t, tt.df)
	}
}

func TestTTestPValue_MatchesStudentsTCDF(t *testing.T) {
	sd := NewDistributions()
	for _, df := range []float64{1, 2.5, 7.27, 30, 200} {
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		for _, tStat := range []float64{0.1, 0.9, 1.7, 3.2, 6} {
			got, err := sd.TTestPValue(tStat, df)
			require.NoError(t, err)
			want := 2 * dist.Survival(tStat)
			assert.InDelta(t, want, got, 1e-10, "t=%v df=%v", tStat, df)
		}
	}
}

func TestTTestPValue_Monotone(t *testing.T) {
	sd := NewDistributions()
	prev := 1.0
	for tStat := 0.0; tStat < 8; tStat += 0.25 {
		p, err := sd.TTestPValue(tStat, 12)
		require.NoError(t, err)
		if p > prev {
			t.Fatalf("p-value increased at t=%v: %v > %v", tStat, p, prev)
		}
		prev = p
	}
}

func TestTTestPValue_InvalidDF(t *testing.T) {
	sd := NewDistributions()
	for _, df := range []float64{0, -3, math.NaN()} {
		_, err := sd.TTestPValue(1, df)
		assert.True(t, core.IsInvalidInput(err), "df=%v", df)
	}
}

func TestCriticalT(t *testing.T) {
	sd := NewDistributions()
	assert.InDelta(t, 2.085963447265864, sd.CriticalT(0.05, 20), 1e-6)
	assert.InDelta(t, 1.959963984540054, sd.CriticalT(0.05, 1e7), 1e-4)
}

// Reference values cross-checked by direct numerical integration over the
// chi distribution.
func TestNoncentralTCDF_Reference(t *testing.T) {
	sd := NewDistributions()

	tests := []struct {
		t, df, ncp, want float64
	}{
		{2.0, 10, 1.5, 0.6591540724420263},
		{-1.0, 5, 0.5, 0.08244409105697148},
		{1.96, 30, 3.0, 0.1528621770352576},
	}

	for _, tt := range tests {
		got, err := sd.NoncentralTCDF(tt.t, tt.df, tt.ncp)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-8, "t=%v df=%v ncp=%v", tt.t, tt.df, tt.ncp)
	}
}

func TestNoncentralTCDF_ZeroNCPIsCentral(t *testing.T) {
	sd := NewDistributions()
	for _, df := range []float64{3, 15, 80} {
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		for _, x := range []float64{-2.2, -0.4, 0, 0.7, 2.9} {
			got, err := sd.NoncentralTCDF(x, df, 0)
			require.NoError(t, err)
			assert.InDelta(t, dist.CDF(x), got, 1e-9, "x=%v df=%v", x, df)
		}
	}
}

func TestNoncentralTCDF_IterationBudget(t *testing.T) {
	sd := NewDistributionsWithBudget(1, 1e-300)
	_, err := sd.NoncentralTCDF(3, 40, 12)
	if !core.IsNumericalInstability(err) {
		t.Fatalf("expected numerical instability with a 1-iteration budget, got %v", err)
	}
}

func TestTwoSidedPower_Properties(t *testing.T) {
	sd := NewDistributions()

	p0, err := sd.TwoSidedPower(0, 40, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, p0, 1e-7, "power at ncp=0 must equal alpha")

	prev := p0
	for ncp := 0.25; ncp <= 10; ncp += 0.25 {
		p, err := sd.TwoSidedPower(ncp, 40, 0.05)
		require.NoError(t, err)
		if p < prev {
			t.Fatalf("power decreased at ncp=%v: %v < %v", ncp, p, prev)
		}
		prev = p
	}
	assert.Greater(t, prev, 0.9999)

	// Cohen's convention: ncp near 2.8 gives power near 0.8 at large df
	p, err := sd.TwoSidedPower(2.8, 1000, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, p, 0.01)
}
