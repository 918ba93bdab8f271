package app

import (
	"fmt"
	"math"

	"hypotest/adapters/stats/senses"
	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal"
	"hypotest/internal/analysis/brief"
)

// AnalysisService assembles a full baseline-vs-enhanced report.
// It keeps no per-call state; concurrent calls need no locking.
type AnalysisService struct {
	ttest  *senses.TTestEngine
	power  *senses.PowerAnalyzer
	logger *internal.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(ttest *senses.TTestEngine, power *senses.PowerAnalyzer, logger *internal.Logger) *AnalysisService {
	if ttest == nil {
		ttest = senses.NewTTestEngine()
	}
	if power == nil {
		power = senses.NewPowerAnalyzer()
	}
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	return &AnalysisService{ttest: ttest, power: power, logger: logger}
}

// NewDefaultAnalysisService wires the default engines with a silent logger
func NewDefaultAnalysisService() *AnalysisService {
	return NewAnalysisService(nil, nil, nil)
}

// Analyze runs describe -> t-test -> effect size -> power -> improvement.
// The first failing step aborts the call; no partial report is returned.
func (s *AnalysisService) Analyze(baseline, enhanced []float64, opts stats.TestOptions) (*stats.AnalysisReport, error) {
	opts, err := opts.WithDefaults()
	if err != nil {
		return nil, err
	}

	d1, err := brief.DescribeField("baseline", baseline)
	if err != nil {
		return nil, err
	}
	d2, err := brief.DescribeField("enhanced", enhanced)
	if err != nil {
		return nil, err
	}
	s.logger.Trace("described samples: baseline n=%d mean=%g sd=%g, enhanced n=%d mean=%g sd=%g",
		d1.N, d1.Mean, d1.StdDev, d2.N, d2.Mean, d2.StdDev)

	tResult, err := s.ttest.FromDescriptive(d1, d2, opts)
	if err != nil {
		s.logger.Debug("t-test rejected input: %v", err)
		return nil, err
	}

	effect, err := senses.EffectSizeFromDescriptive(d1, d2)
	if err != nil {
		s.logger.Debug("effect size rejected input: %v", err)
		return nil, err
	}

	power, err := s.power.EstimatePower(effect.CohensD, min(d1.N, d2.N), opts.Alpha())
	if err != nil {
		s.logger.Debug("power estimate failed: %v", err)
		return nil, err
	}
	if !power.Adequate && effect.CohensD > 0 {
		// A recommendation is advisory; an unreachable target leaves it unset
		if n, err := s.power.RequiredSampleSize(effect.CohensD, opts.Alpha(), s.power.Threshold()); err == nil {
			power.RecommendedSampleSize = n
		} else {
			s.logger.Debug("no sample size recommendation for d=%g: %v", effect.CohensD, err)
		}
	}

	if !finite(tResult.TStatistic, tResult.DegreesOfFreedom, tResult.PValue, effect.CohensD, power.Power) {
		return nil, fmt.Errorf("%w: non-finite result (t=%v df=%v p=%v d=%v power=%v)", core.ErrNumericalInstability,
			tResult.TStatistic, tResult.DegreesOfFreedom, tResult.PValue, effect.CohensD, power.Power)
	}

	fingerprint := core.SampleFingerprint(baseline, enhanced, opts.ConfidenceLevel, boolWord(opts.EqualVariance))

	report := &stats.AnalysisReport{
		AnalysisID:  core.NewAnalysisID(fingerprint),
		Fingerprint: fingerprint,
		Options:     opts,
		Baseline:    d1,
		Enhanced:    d2,
		TTest:       tResult,
		EffectSize:  effect,
		Power:       power,
		Improvement: stats.NewImprovement(d1.Mean, d2.Mean),
	}
	if !report.Improvement.RelativeDefined {
		s.logger.Warn("baseline mean is zero; relative improvement is undefined")
	}

	s.logger.Debug("analysis %s: %s", report.AnalysisID, report.Summary())
	return report, nil
}

// AnalyzePair is Analyze over a SamplePair
func (s *AnalysisService) AnalyzePair(pair stats.SamplePair, opts stats.TestOptions) (*stats.AnalysisReport, error) {
	return s.Analyze(pair.Baseline, pair.Enhanced, opts)
}

func boolWord(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
