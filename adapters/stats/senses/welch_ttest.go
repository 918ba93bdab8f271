package senses

import (
	"fmt"
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal/analysis/brief"
)

// TTestEngine runs two-sample t-tests against a shared distributions utility.
// It holds no per-call state and is safe for concurrent use.
type TTestEngine struct {
	dist *brief.StatisticalDistributions
}

// NewTTestEngine creates a t-test engine with default convergence settings
func NewTTestEngine() *TTestEngine {
	return &TTestEngine{dist: brief.NewDistributions()}
}

// NewTTestEngineWithDistributions creates a t-test engine over dist
func NewTTestEngineWithDistributions(dist *brief.StatisticalDistributions) *TTestEngine {
	if dist == nil {
		dist = brief.NewDistributions()
	}
	return &TTestEngine{dist: dist}
}

var defaultTTestEngine = NewTTestEngine()

// TTest compares the enhanced sample against the baseline using the default engine
func TTest(baseline, enhanced []float64, opts stats.TestOptions) (stats.TTestResult, error) {
	return defaultTTestEngine.TTest(baseline, enhanced, opts)
}

// TTest describes both samples and runs Welch's test, or Student's pooled
// test when opts.EqualVariance is set. A positive t means the enhanced mean
// is higher.
func (e *TTestEngine) TTest(baseline, enhanced []float64, opts stats.TestOptions) (stats.TTestResult, error) {
	opts, err := opts.WithDefaults()
	if err != nil {
		return stats.TTestResult{}, err
	}

	d1, err := brief.DescribeField("baseline", baseline)
	if err != nil {
		return stats.TTestResult{}, err
	}
	d2, err := brief.DescribeField("enhanced", enhanced)
	if err != nil {
		return stats.TTestResult{}, err
	}

	return e.FromDescriptive(d1, d2, opts)
}

// FromDescriptive runs the t-test on precomputed descriptive statistics
func (e *TTestEngine) FromDescriptive(d1, d2 stats.DescriptiveStats, opts stats.TestOptions) (stats.TTestResult, error) {
	opts, err := opts.WithDefaults()
	if err != nil {
		return stats.TTestResult{}, err
	}
	if d1.N < stats.MinSampleSize {
		return stats.TTestResult{}, core.NewSampleSizeError("baseline", d1.N)
	}
	if d2.N < stats.MinSampleSize {
		return stats.TTestResult{}, core.NewSampleSizeError("enhanced", d2.N)
	}

	var se, df float64
	method := stats.MethodWelch
	if opts.EqualVariance {
		method = stats.MethodStudent
		se, df = pooledStandardError(d1, d2)
	} else {
		se, df = welchStandardError(d1, d2)
	}

	if se == 0 {
		return stats.TTestResult{}, core.NewDegenerateInputError(
			fmt.Sprintf("standard error is zero (both samples have zero variance, mean difference %v)", d2.Mean-d1.Mean))
	}
	if math.IsNaN(se) || math.IsInf(se, 0) || math.IsNaN(df) || !(df > 0) {
		return stats.TTestResult{}, fmt.Errorf("%w: standard error %v with df %v", core.ErrNumericalInstability, se, df)
	}

	diff := d2.Mean - d1.Mean
	tStat := diff / se

	pValue, err := e.dist.TTestPValue(tStat, df)
	if err != nil {
		return stats.TTestResult{}, err
	}

	margin := e.dist.CriticalT(opts.Alpha(), df) * se

	return stats.TTestResult{
		Method:           method,
		TStatistic:       tStat,
		DegreesOfFreedom: df,
		PValue:           pValue,
		Significant:      pValue < opts.Alpha(),
		ConfidenceLevel:  opts.ConfidenceLevel,
		StandardError:    se,
		MeanDifference:   diff,
		ConfidenceInterval: stats.ConfidenceInterval{
			Lower: diff - margin,
			Upper: diff + margin,
		},
	}, nil
}

// welchStandardError returns sqrt(v1/n1 + v2/n2) and the Welch-Satterthwaite df.
// Both are computed on deviations scaled by the larger one, and df uses each
// term's share of the total, so neither squares nor fourth powers leave the
// float64 range.
func welchStandardError(d1, d2 stats.DescriptiveStats) (float64, float64) {
	k := math.Max(d1.StdDev, d2.StdDev)
	if k == 0 {
		return 0, 0
	}
	n1, n2 := float64(d1.N), float64(d2.N)
	a := square(d1.StdDev/k) / n1
	b := square(d2.StdDev/k) / n2
	se := k * math.Sqrt(a+b)

	ra, rb := a/(a+b), b/(a+b)
	df := 1 / (square(ra)/(n1-1) + square(rb)/(n2-1))
	return se, df
}

// pooledStandardError returns the Student standard error and n1+n2-2
func pooledStandardError(d1, d2 stats.DescriptiveStats) (float64, float64) {
	n1, n2 := float64(d1.N), float64(d2.N)
	df := n1 + n2 - 2
	k := math.Max(d1.StdDev, d2.StdDev)
	if k == 0 {
		return 0, df
	}
	pooledVariance := ((n1-1)*square(d1.StdDev/k) + (n2-1)*square(d2.StdDev/k)) / df
	return k * math.Sqrt(pooledVariance*(1/n1+1/n2)), df
}

func square(x float64) float64 {
	return x * x
}
