package brief

import (
	"math"

	"hypotest/domain/core"
	"hypotest/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// Describe computes the descriptive statistics of one sample. The standard
// deviation is the unbiased n-1 estimator that both t-test variants expect.
func Describe(sample []float64) (stats.DescriptiveStats, error) {
	return DescribeField("sample", sample)
}

// DescribeField is Describe with a field name used in error messages.
//
// A sample whose values are all equal has a standard deviation of exactly
// zero. Other samples are divided by their largest magnitude before the
// moments are taken, so values near the float64 limits neither underflow
// nor overflow when squared.
func DescribeField(field string, sample []float64) (stats.DescriptiveStats, error) {
	if len(sample) < stats.MinSampleSize {
		return stats.DescriptiveStats{}, core.NewSampleSizeError(field, len(sample))
	}
	for i, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return stats.DescriptiveStats{}, core.NewNonNumericError(field, i, v)
		}
	}

	min, err := mstats.Min(sample)
	if err != nil {
		return stats.DescriptiveStats{}, core.NewInvalidInputError(field, err.Error())
	}
	max, err := mstats.Max(sample)
	if err != nil {
		return stats.DescriptiveStats{}, core.NewInvalidInputError(field, err.Error())
	}
	median, err := mstats.Median(sample)
	if err != nil {
		return stats.DescriptiveStats{}, core.NewInvalidInputError(field, err.Error())
	}

	if min == max {
		return stats.DescriptiveStats{
			Mean:   min,
			StdDev: 0,
			N:      len(sample),
			Min:    min,
			Max:    max,
			Median: median,
		}, nil
	}

	scale := math.Max(math.Abs(min), math.Abs(max))
	scaled := make(mstats.Float64Data, len(sample))
	for i, v := range sample {
		scaled[i] = v / scale
	}

	mean, err := mstats.Mean(scaled)
	if err != nil {
		return stats.DescriptiveStats{}, core.NewInvalidInputError(field, err.Error())
	}
	variance, err := mstats.SampleVariance(scaled)
	if err != nil {
		return stats.DescriptiveStats{}, core.NewInvalidInputError(field, err.Error())
	}

	return stats.DescriptiveStats{
		Mean:   mean * scale,
		StdDev: math.Sqrt(variance) * scale,
		N:      len(sample),
		Min:    min,
		Max:    max,
		Median: median,
	}, nil
}
