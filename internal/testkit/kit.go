package testkit

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hypotest/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// TestKit provides deterministic sample fixtures
type TestKit struct {
	seed uint64
}

// NewTestKit creates a test kit whose draws are fully determined by seed
func NewTestKit(seed uint64) *TestKit {
	return &TestKit{seed: seed}
}

// NormalSample draws n values from N(mu, sigma). Each call with the same
// stream number returns the same values.
func (k *TestKit) NormalSample(stream uint64, n int, mu, sigma float64) []float64 {
	dist := distuv.Normal{
		Mu:    mu,
		Sigma: sigma,
		Src:   rand.NewPCG(k.seed, stream),
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// ShiftedPair returns a baseline drawn from N(mu, sigma) and an enhanced
// sample shifted by effectSize standard deviations
func (k *TestKit) ShiftedPair(name string, n int, mu, sigma, effectSize float64) stats.SamplePair {
	return stats.SamplePair{
		Name:     name,
		Baseline: k.NormalSample(1, n, mu, sigma),
		Enhanced: k.NormalSample(2, n, mu+effectSize*sigma, sigma),
	}
}

// Constant returns n copies of v
func Constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// WriteColumns writes two columns as CSV under dir and returns the path.
// Shorter columns leave trailing cells blank.
func WriteColumns(dir, name string, header bool, baseline, enhanced []float64) (string, error) {
	var b strings.Builder
	if header {
		b.WriteString("baseline,enhanced\n")
	}
	rows := max(len(baseline), len(enhanced))
	for i := 0; i < rows; i++ {
		if i < len(baseline) {
			b.WriteString(strconv.FormatFloat(baseline[i], 'g', -1, 64))
		}
		b.WriteByte(',')
		if i < len(enhanced) {
			b.WriteString(strconv.FormatFloat(enhanced[i], 'g', -1, 64))
		}
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write fixture %s: %w", path, err)
	}
	return path, nil
}
