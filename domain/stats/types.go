package stats

import (
	"fmt"

	"hypotest/domain/core"
)

// ============================================================================
// DEFAULTS
// ============================================================================

const (
	DefaultConfidenceLevel = 0.95
	DefaultAlpha           = 0.05
	DefaultPowerTarget     = 0.8
	MinSampleSize          = 2
)

// TestMethod names the variance assumption behind a t-test
type TestMethod string

const (
	MethodWelch   TestMethod = "welch"
	MethodStudent TestMethod = "student"
)

// TestOptions controls a two-sample comparison. Zero values select defaults.
type TestOptions struct {
	ConfidenceLevel float64 `json:"confidence_level"`
	EqualVariance   bool    `json:"equal_variance"`
}

// WithDefaults fills unset fields and validates the result
func (o TestOptions) WithDefaults() (TestOptions, error) {
	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = DefaultConfidenceLevel
	}
	if !(o.ConfidenceLevel > 0 && o.ConfidenceLevel < 1) {
		return o, core.NewInvalidInputError("confidence_level", fmt.Sprintf("must be in (0,1), got %v", o.ConfidenceLevel))
	}
	return o, nil
}

// Alpha is the significance threshold implied by the confidence level
func (o TestOptions) Alpha() float64 {
	return 1 - o.ConfidenceLevel
}

// ============================================================================
// RESULTS
// ============================================================================

// DescriptiveStats summarises one sample.
// INVARIANTS:
// - N >= 2
// - StdDev uses the n-1 denominator
// - StdDev is exactly 0 when all values are equal
type DescriptiveStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	N      int     `json:"n"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// ConfidenceInterval is a two-sided interval for the mean difference
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// TTestResult is the outcome of a two-sample t-test.
// Significant is exactly PValue < 1-ConfidenceLevel.
type TTestResult struct {
	Method             TestMethod         `json:"method"`
	TStatistic         float64            `json:"t_statistic"`
	DegreesOfFreedom   float64            `json:"degrees_of_freedom"`
	PValue             float64            `json:"p_value"`
	Significant        bool               `json:"significant"`
	ConfidenceLevel    float64            `json:"confidence_level"`
	StandardError      float64            `json:"standard_error"`
	MeanDifference     float64            `json:"mean_difference"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
}

// EffectInterpretation labels a Cohen's d magnitude
type EffectInterpretation string

const (
	EffectNegligible EffectInterpretation = "negligible"
	EffectSmall      EffectInterpretation = "small"
	EffectMedium     EffectInterpretation = "medium"
	EffectLarge      EffectInterpretation = "large"
)

// EffectSizeResult carries a non-negative Cohen's d and its label
type EffectSizeResult struct {
	CohensD        float64              `json:"cohens_d"`
	Interpretation EffectInterpretation `json:"interpretation"`
}

// PowerResult is a power estimate for a two-sided two-sample t-test.
// RecommendedSampleSize is set only when the power is not adequate.
type PowerResult struct {
	Power                 float64 `json:"power"`
	Adequate              bool    `json:"adequate"`
	EffectSize            float64 `json:"effect_size"`
	SampleSize            int     `json:"sample_size"`
	Alpha                 float64 `json:"alpha"`
	NonCentrality         float64 `json:"non_centrality"`
	RecommendedSampleSize int     `json:"recommended_sample_size,omitempty"`
}

// Improvement is the enhanced-minus-baseline change.
// Relative is nil (and RelativeDefined false) when the baseline mean is zero.
type Improvement struct {
	Absolute        float64  `json:"absolute"`
	Relative        *float64 `json:"relative"`
	RelativeDefined bool     `json:"relative_defined"`
}

// NewImprovement computes the change relative to the baseline mean
func NewImprovement(baselineMean, enhancedMean float64) Improvement {
	absolute := enhancedMean - baselineMean
	if baselineMean == 0 {
		return Improvement{Absolute: absolute}
	}
	relative := absolute / baselineMean * 100
	return Improvement{Absolute: absolute, Relative: &relative, RelativeDefined: true}
}

// AnalysisReport aggregates one baseline-vs-enhanced comparison
type AnalysisReport struct {
	AnalysisID  core.AnalysisID  `json:"analysis_id"`
	Fingerprint core.Hash        `json:"fingerprint"`
	Options     TestOptions      `json:"options"`
	Baseline    DescriptiveStats `json:"baseline"`
	Enhanced    DescriptiveStats `json:"enhanced"`
	TTest       TTestResult      `json:"t_test"`
	EffectSize  EffectSizeResult `json:"effect_size"`
	Power       PowerResult      `json:"power"`
	Improvement Improvement      `json:"improvement"`
}

// Summary renders a one-line human-readable verdict
func (r *AnalysisReport) Summary() string {
	verdict := "no significant difference"
	if r.TTest.Significant {
		verdict = "significant difference"
	}
	return fmt.Sprintf("%s (%s t=%.3f, df=%.2f, p=%.4g, d=%.3f %s, power=%.2f)",
		verdict, r.TTest.Method, r.TTest.TStatistic, r.TTest.DegreesOfFreedom, r.TTest.PValue,
		r.EffectSize.CohensD, r.EffectSize.Interpretation, r.Power.Power)
}

// SamplePair is one unit of work for batch analysis
type SamplePair struct {
	Name     string    `json:"name"`
	Baseline []float64 `json:"baseline"`
	Enhanced []float64 `json:"enhanced"`
}
