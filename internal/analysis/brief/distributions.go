package brief

import (
	"fmt"
	"math"

	"hypotest/domain/core"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultMaxIterations bounds the non-central t series.
	DefaultMaxIterations = 1000
	// DefaultTolerance is the truncation error bound of the non-central t series.
	DefaultTolerance = 1e-12

	// Beyond these the non-central t series is replaced by its normal
	// approximation: the Poisson weights underflow or the t is effectively normal.
	largeDF          = 4e5
	largeNonCentral2 = 2 * math.Ln2 * 1021
)

// StatisticalDistributions provides the distribution functions used by the
// t-test and power routines
type StatisticalDistributions struct {
	maxIterations int
	tolerance     float64
}

// NewDistributions creates a distributions utility with default convergence settings
func NewDistributions() *StatisticalDistributions {
	return &StatisticalDistributions{
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
	}
}

// NewDistributionsWithBudget overrides the iteration budget and tolerance
func NewDistributionsWithBudget(maxIterations int, tolerance float64) *StatisticalDistributions {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &StatisticalDistributions{maxIterations: maxIterations, tolerance: tolerance}
}

// TTestPValue computes the exact two-tailed p-value of a t statistic.
//
// P(|T| >= |t|) = I_{df/(df+t²)}(df/2, 1/2), the regularized incomplete beta function.
func (sd *StatisticalDistributions) TTestPValue(tStatistic, degreesOfFreedom float64) (float64, error) {
	if math.IsNaN(tStatistic) {
		return 0, core.NewInvalidInputError("t_statistic", "NaN")
	}
	if !(degreesOfFreedom > 0) {
		return 0, core.NewInvalidInputError("degrees_of_freedom", fmt.Sprintf("must be positive, got %v", degreesOfFreedom))
	}
	if math.IsInf(degreesOfFreedom, 1) {
		return 2 * distuv.UnitNormal.Survival(math.Abs(tStatistic)), nil
	}
	if math.IsInf(tStatistic, 0) {
		return 0, nil
	}

	x := degreesOfFreedom / (degreesOfFreedom + tStatistic*tStatistic)
	p := mathext.RegIncBeta(degreesOfFreedom/2, 0.5, x)
	if math.IsNaN(p) {
		return 0, fmt.Errorf("%w: incomplete beta returned NaN for t=%v df=%v", core.ErrNumericalInstability, tStatistic, degreesOfFreedom)
	}
	return clampProbability(p), nil
}

// TQuantile is the inverse CDF of the central Student's t distribution
func (sd *StatisticalDistributions) TQuantile(p, degreesOfFreedom float64) float64 {
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: degreesOfFreedom}
	return tDist.Quantile(p)
}

// CriticalT returns the two-sided critical value t_{1-alpha/2, df}
func (sd *StatisticalDistributions) CriticalT(alpha, degreesOfFreedom float64) float64 {
	return sd.TQuantile(1-alpha/2, degreesOfFreedom)
}

// NoncentralTCDF evaluates P(T' <= t) for the non-central t distribution with
// df degrees of freedom and non-centrality ncp.
//
// The series is Lenth's algorithm AS 243, which sums Poisson-weighted
// incomplete beta terms until the truncation bound drops below the tolerance.
func (sd *StatisticalDistributions) NoncentralTCDF(t, degreesOfFreedom, ncp float64) (float64, error) {
	if math.IsNaN(t) || math.IsNaN(ncp) || !(degreesOfFreedom > 0) {
		return 0, core.NewInvalidInputError("noncentral_t", fmt.Sprintf("t=%v df=%v ncp=%v", t, degreesOfFreedom, ncp))
	}

	// The lower tail at negative t is one minus the upper tail of the mirrored distribution.
	negate := false
	tt, del := t, ncp
	if t < 0 {
		negate = true
		tt, del = -t, -ncp
	}

	if degreesOfFreedom > largeDF || del*del > largeNonCentral2 {
		s := 1 / (4 * degreesOfFreedom)
		approx := distuv.Normal{Mu: del, Sigma: math.Sqrt(1 + tt*tt*2*s)}
		cdf := approx.CDF(tt * (1 - s))
		if negate {
			return clampProbability(1 - cdf), nil
		}
		return clampProbability(cdf), nil
	}

	tnc := 0.0
	x := tt * tt / (tt*tt + degreesOfFreedom)
	if x > 0 {
		var err error
		tnc, err = sd.noncentralSeries(x, degreesOfFreedom, del)
		if err != nil {
			return 0, err
		}
	}

	tnc += distuv.UnitNormal.CDF(-del)
	tnc = math.Min(tnc, 1)
	if negate {
		return clampProbability(1 - tnc), nil
	}
	return clampProbability(tnc), nil
}

func (sd *StatisticalDistributions) noncentralSeries(x, df, del float64) (float64, error) {
	lambda := del * del
	p := 0.5 * math.Exp(-0.5*lambda)
	q := math.Sqrt(2/math.Pi) * p * del
	s := 0.5 - p
	if s < 1e-7 {
		s = -0.5 * math.Expm1(-0.5*lambda)
	}

	a := 0.5
	b := 0.5 * df
	rxb := math.Pow(1-x, b)
	lgB, _ := math.Lgamma(b)
	lgAB, _ := math.Lgamma(0.5 + b)
	logBeta := 0.5*math.Log(math.Pi) + lgB - lgAB

	xodd := mathext.RegIncBeta(a, b, x)
	godd := 2 * rxb * math.Exp(a*math.Log(x)-logBeta)
	bx := b * x
	xeven := 1 - rxb
	if bx < 2.220446049250313e-16 {
		xeven = bx
	}
	geven := bx * rxb
	tnc := p*xodd + q*xeven

	for it := 1; it <= sd.maxIterations; it++ {
		a++
		xodd -= godd
		xeven -= geven
		godd *= x * (a + b - 1) / a
		geven *= x * (a + b - 0.5) / (a + 0.5)
		p *= lambda / float64(2*it)
		q *= lambda / float64(2*it+1)
		tnc += p*xodd + q*xeven
		s -= p

		// Poisson mass exhausted
		if s < -1e-10 || (s <= 0 && it > 1) {
			return tnc, nil
		}
		if math.Abs(2*s*(xodd-godd)) < sd.tolerance {
			return tnc, nil
		}
	}

	return 0, core.NewConvergenceError("non-central t series", sd.maxIterations)
}

// TwoSidedPower is the probability that a two-sided t-test at level alpha
// rejects when the true non-centrality is ncp
func (sd *StatisticalDistributions) TwoSidedPower(ncp, degreesOfFreedom, alpha float64) (float64, error) {
	tCrit := sd.CriticalT(alpha, degreesOfFreedom)
	if math.IsNaN(tCrit) {
		return 0, fmt.Errorf("%w: critical t undefined for alpha=%v df=%v", core.ErrNumericalInstability, alpha, degreesOfFreedom)
	}

	upper, err := sd.NoncentralTCDF(tCrit, degreesOfFreedom, ncp)
	if err != nil {
		return 0, err
	}
	lower, err := sd.NoncentralTCDF(-tCrit, degreesOfFreedom, ncp)
	if err != nil {
		return 0, err
	}
	return clampProbability(1 - upper + lower), nil
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
