package senses

import (
	"fmt"
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal/analysis/brief"
)

// MaxRequiredSampleSize caps the per-group sample size search
const MaxRequiredSampleSize = 1_000_000

// PowerAnalyzer estimates the power of a two-sided two-sample t-test with
// equal group sizes using the exact non-central t distribution.
type PowerAnalyzer struct {
	dist      *brief.StatisticalDistributions
	threshold float64
}

// NewPowerAnalyzer creates a power analyzer with the conventional 0.8 adequacy threshold
func NewPowerAnalyzer() *PowerAnalyzer {
	return &PowerAnalyzer{dist: brief.NewDistributions(), threshold: stats.DefaultPowerTarget}
}

// NewPowerAnalyzerWithThreshold overrides the adequacy threshold
func NewPowerAnalyzerWithThreshold(dist *brief.StatisticalDistributions, threshold float64) *PowerAnalyzer {
	if dist == nil {
		dist = brief.NewDistributions()
	}
	if !(threshold > 0 && threshold < 1) {
		threshold = stats.DefaultPowerTarget
	}
	return &PowerAnalyzer{dist: dist, threshold: threshold}
}

var defaultPowerAnalyzer = NewPowerAnalyzer()

// EstimatePower estimates power with the default analyzer
func EstimatePower(effectSize float64, sampleSize int, alpha float64) (stats.PowerResult, error) {
	return defaultPowerAnalyzer.EstimatePower(effectSize, sampleSize, alpha)
}

// RequiredSampleSize searches with the default analyzer
func RequiredSampleSize(effectSize, alpha, targetPower float64) (int, error) {
	return defaultPowerAnalyzer.RequiredSampleSize(effectSize, alpha, targetPower)
}

// Threshold returns the power at which a design counts as adequate
func (pa *PowerAnalyzer) Threshold() float64 {
	return pa.threshold
}

// EstimatePower returns the probability of rejecting H0 at level alpha when
// the true standardized difference is effectSize and each group has
// sampleSize observations. ncp = |d|*sqrt(n/2) with df = 2n-2. Zero alpha
// selects 0.05.
func (pa *PowerAnalyzer) EstimatePower(effectSize float64, sampleSize int, alpha float64) (stats.PowerResult, error) {
	alpha, err := validatePowerInputs(effectSize, sampleSize, alpha)
	if err != nil {
		return stats.PowerResult{}, err
	}

	ncp := math.Abs(effectSize) * math.Sqrt(float64(sampleSize)/2)
	power, err := pa.power(ncp, sampleSize, alpha)
	if err != nil {
		return stats.PowerResult{}, err
	}

	return stats.PowerResult{
		Power:         power,
		Adequate:      power >= pa.threshold,
		EffectSize:    math.Abs(effectSize),
		SampleSize:    sampleSize,
		Alpha:         alpha,
		NonCentrality: ncp,
	}, nil
}

// RequiredSampleSize returns the smallest per-group n whose power reaches
// targetPower. Power is monotone in n, so a binary search suffices.
func (pa *PowerAnalyzer) RequiredSampleSize(effectSize, alpha, targetPower float64) (int, error) {
	alpha, err := validatePowerInputs(effectSize, stats.MinSampleSize, alpha)
	if err != nil {
		return 0, err
	}
	if targetPower == 0 {
		targetPower = pa.threshold
	}
	if !(targetPower > alpha && targetPower < 1) {
		return 0, core.NewInvalidInputError("target_power", fmt.Sprintf("must be in (alpha,1), got %v", targetPower))
	}
	if effectSize == 0 {
		return 0, core.NewDegenerateInputError("zero effect size cannot reach any power above alpha")
	}

	reaches := func(n int) (bool, error) {
		ncp := math.Abs(effectSize) * math.Sqrt(float64(n)/2)
		p, err := pa.power(ncp, n, alpha)
		return p >= targetPower, err
	}

	ok, err := reaches(MaxRequiredSampleSize)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, core.NewInvalidInputError("effect_size",
			fmt.Sprintf("%v needs more than %d observations per group", effectSize, MaxRequiredSampleSize))
	}

	lo, hi := stats.MinSampleSize, MaxRequiredSampleSize
	for lo < hi {
		mid := lo + (hi-lo)/2
		ok, err := reaches(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, nil
}

func (pa *PowerAnalyzer) power(ncp float64, sampleSize int, alpha float64) (float64, error) {
	df := float64(2*sampleSize - 2)
	return pa.dist.TwoSidedPower(ncp, df, alpha)
}

func validatePowerInputs(effectSize float64, sampleSize int, alpha float64) (float64, error) {
	if math.IsNaN(effectSize) || math.IsInf(effectSize, 0) {
		return 0, core.NewInvalidInputError("effect_size", fmt.Sprintf("non-numeric value %v", effectSize))
	}
	if sampleSize < stats.MinSampleSize {
		return 0, core.NewSampleSizeError("sample_size", sampleSize)
	}
	if alpha == 0 {
		alpha = stats.DefaultAlpha
	}
	if !(alpha > 0 && alpha < 1) {
		return 0, core.NewInvalidInputError("alpha", fmt.Sprintf("must be in (0,1), got %v", alpha))
	}
	return alpha, nil
}
