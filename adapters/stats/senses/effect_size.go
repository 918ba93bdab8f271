package senses

import (
	"fmt"
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"
)

// Cohen's conventional effect size thresholds
const (
	SmallEffectThreshold  = 0.2
	MediumEffectThreshold = 0.5
	LargeEffectThreshold  = 0.8
)

// CohensD is the absolute mean difference over the root mean square of the
// two standard deviations. Zero pooled deviation is degenerate even when the
// means are equal.
func CohensD(mean1, mean2, std1, std2 float64) (float64, error) {
	names := [...]string{"mean1", "mean2", "std1", "std2"}
	for i, v := range [...]float64{mean1, mean2, std1, std2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, core.NewInvalidInputError(names[i], fmt.Sprintf("non-numeric value %v", v))
		}
	}
	if std1 < 0 || std2 < 0 {
		return 0, core.NewInvalidInputError("std", fmt.Sprintf("standard deviations must be non-negative, got %v and %v", std1, std2))
	}

	// sqrt((s1²+s2²)/2) without squaring out of range
	pooledStd := math.Hypot(std1, std2) / math.Sqrt2
	if pooledStd == 0 {
		return 0, core.NewDegenerateInputError(
			fmt.Sprintf("pooled standard deviation is zero (mean difference %v)", mean2-mean1))
	}

	return math.Abs(mean2-mean1) / pooledStd, nil
}

// InterpretEffectSize labels |d| using the fixed 0.2 / 0.5 / 0.8 cut points
func InterpretEffectSize(d float64) stats.EffectInterpretation {
	absD := math.Abs(d)
	switch {
	case absD < SmallEffectThreshold:
		return stats.EffectNegligible
	case absD < MediumEffectThreshold:
		return stats.EffectSmall
	case absD < LargeEffectThreshold:
		return stats.EffectMedium
	default:
		return stats.EffectLarge
	}
}

// EffectSize computes Cohen's d and its interpretation
func EffectSize(mean1, mean2, std1, std2 float64) (stats.EffectSizeResult, error) {
	d, err := CohensD(mean1, mean2, std1, std2)
	if err != nil {
		return stats.EffectSizeResult{}, err
	}
	return stats.EffectSizeResult{
		CohensD:        d,
		Interpretation: InterpretEffectSize(d),
	}, nil
}

// EffectSizeFromDescriptive computes the effect size of two described samples
func EffectSizeFromDescriptive(d1, d2 stats.DescriptiveStats) (stats.EffectSizeResult, error) {
	return EffectSize(d1.Mean, d2.Mean, d1.StdDev, d2.StdDev)
}
