package main

import (
	"context"

	"hypotest/adapters/excel"
	"hypotest/adapters/jsondoc"
	"hypotest/adapters/stats/senses"
	"hypotest/app"
	"hypotest/domain/stats"
	"hypotest/internal"
	"hypotest/internal/analysis/brief"
	"hypotest/internal/config"
	apperrors "hypotest/internal/errors"
	"hypotest/ports"

	"github.com/spf13/cobra"
)

// sourceFlags select and configure a sample reader
type sourceFlags struct {
	format       string
	sheet        string
	baselinePath string
	enhancedPath string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "Input format: csv|lines|xlsx|json (default: from file extension)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to read for xlsx input (default: first sheet)")
	cmd.Flags().StringVar(&f.baselinePath, "baseline-path", jsondoc.DefaultBaselinePath, "gjson path of the baseline array for json input")
	cmd.Flags().StringVar(&f.enhancedPath, "enhanced-path", jsondoc.DefaultEnhancedPath, "gjson path of the enhanced array for json input")
}

func (f *sourceFlags) reader(path string, logger *internal.Logger) (ports.SampleReader, error) {
	format := excel.FormatFromPath(path)
	if f.format != "" {
		parsed, ok := excel.ParseFormat(f.format)
		if !ok {
			return nil, apperrors.UnsupportedFormat(f.format)
		}
		format = parsed
	}

	if format == excel.FormatJSON {
		return jsondoc.NewReader(path, f.baselinePath, f.enhancedPath), nil
	}
	return excel.NewDataReader(excel.ReaderConfig{
		FilePath: path,
		Format:   format,
		Sheet:    f.sheet,
		Logger:   logger,
	}), nil
}

// analysisFlags override the configured test options
type analysisFlags struct {
	confidence    float64
	equalVariance bool
}

func (f *analysisFlags) register(cmd *cobra.Command, cfg *config.Config) {
	defaults := cfg.TestOptions()
	cmd.Flags().Float64Var(&f.confidence, "confidence", defaults.ConfidenceLevel, "Confidence level in (0,1)")
	cmd.Flags().BoolVar(&f.equalVariance, "equal-variance", defaults.EqualVariance, "Use the pooled-variance Student t-test instead of Welch")
}

func (f *analysisFlags) options() stats.TestOptions {
	return stats.TestOptions{ConfidenceLevel: f.confidence, EqualVariance: f.equalVariance}
}

// newAnalysisService shares one distributions utility between the engines
func newAnalysisService(cfg *config.Config, logger *internal.Logger) *app.AnalysisService {
	dist := brief.NewDistributions()
	return app.NewAnalysisService(
		senses.NewTTestEngineWithDistributions(dist),
		senses.NewPowerAnalyzerWithThreshold(dist, cfg.Analysis.PowerTarget),
		logger,
	)
}

func newAnalyzeCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	var source sourceFlags
	var analysis analysisFlags

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Compare the two columns of one file",
		Long: `Read a baseline column and an enhanced column and print an AnalysisReport.

CSV and xlsx inputs use the first two columns with an optional header row.
The lines format takes two whitespace-separated numbers per line, with "-"
for a missing value. JSON input reads two arrays located by gjson paths.
Use "-" as the file to read stdin.

Example: hypotest analyze scores.csv --confidence 0.99 --equal-variance`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := source.reader(args[0], logger)
			if err != nil {
				return err
			}
			pair, err := reader.ReadSamples(cmd.Context())
			if err != nil {
				return apperrors.Wrapf(err, "failed to read %s", args[0])
			}

			logger.Info("analyzing %s (baseline n=%d, enhanced n=%d)", pair.Name, len(pair.Baseline), len(pair.Enhanced))
			report, err := newAnalysisService(cfg, logger).AnalyzePair(pair, analysis.options())
			if err != nil {
				return apperrors.Wrapf(err, "analysis of %s failed", pair.Name)
			}
			logger.Info("%s", report.Summary())

			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	source.register(cmd)
	analysis.register(cmd, cfg)

	return cmd
}

// powerOutput extends a PowerResult with an optional sample-size plan
type powerOutput struct {
	stats.PowerResult
	TargetPower        float64 `json:"target_power,omitempty"`
	RequiredSampleSize int     `json:"required_sample_size,omitempty"`
}

func newPowerCmd(cfg *config.Config) *cobra.Command {
	var effectSize float64
	var sampleSize int
	var alpha float64
	var target float64

	cmd := &cobra.Command{
		Use:   "power",
		Short: "Estimate the power of a two-sample t-test design",
		Long: `Estimate the probability of detecting a standardized effect with n
observations per group, using the non-central t distribution.

With --target, also report the smallest per-group n that reaches that power.

Example: hypotest power --effect-size 0.5 --n 64 --alpha 0.05 --target 0.9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer := senses.NewPowerAnalyzerWithThreshold(nil, cfg.Analysis.PowerTarget)

			result, err := analyzer.EstimatePower(effectSize, sampleSize, alpha)
			if err != nil {
				return err
			}
			out := powerOutput{PowerResult: result}

			if cmd.Flags().Changed("target") {
				n, err := analyzer.RequiredSampleSize(effectSize, alpha, target)
				if err != nil {
					return err
				}
				out.TargetPower = target
				out.RequiredSampleSize = n
			}

			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().Float64Var(&effectSize, "effect-size", 0, "Standardized effect size (Cohen's d)")
	cmd.Flags().IntVar(&sampleSize, "n", 0, "Observations per group")
	cmd.Flags().Float64Var(&alpha, "alpha", stats.DefaultAlpha, "Two-sided significance level")
	cmd.Flags().Float64Var(&target, "target", cfg.Analysis.PowerTarget, "Target power for the sample-size plan")
	_ = cmd.MarkFlagRequired("effect-size")
	_ = cmd.MarkFlagRequired("n")

	return cmd
}

func newBatchCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	var source sourceFlags
	var analysis analysisFlags
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Analyze many files in parallel",
		Long: `Analyze each file as an independent pair and print a BatchResult.

A file that cannot be read or analyzed is reported in its own result and
does not stop the others. The exit code reflects the first failing file.

Example: hypotest batch runs/*.csv --concurrency 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cfg.Batch.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Batch.Timeout)
				defer cancel()
			}

			results, err := runBatch(ctx, args, source, analysis.options(),
				app.NewBatchService(newAnalysisService(cfg, logger), concurrency, logger), logger)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}

			for _, r := range results.Results {
				if err := r.Err(); err != nil {
					return apperrors.Wrapf(err, "%d of %d pairs failed; first: %s", results.Failed, len(results.Results), r.Name)
				}
			}
			return nil
		},
	}

	source.register(cmd)
	analysis.register(cmd, cfg)
	cmd.Flags().IntVar(&concurrency, "concurrency", cfg.Batch.Concurrency, "Maximum pairs analyzed at once")

	return cmd
}

// runBatch reads every file and analyzes the readable ones. Read failures
// take the same slot in the output as analysis failures.
func runBatch(ctx context.Context, paths []string, source sourceFlags, opts stats.TestOptions,
	svc *app.BatchService, logger *internal.Logger) (*app.BatchResult, error) {
	var pairs []stats.SamplePair
	var slots []int
	readFailures := make(map[int]app.PairResult)

	for i, path := range paths {
		reader, err := source.reader(path, logger)
		if err != nil {
			return nil, err
		}
		pair, err := reader.ReadSamples(ctx)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			readFailures[i] = app.FailedPair(path, err)
			continue
		}
		pairs = append(pairs, pair)
		slots = append(slots, i)
	}

	res, err := svc.Run(ctx, app.BatchRequest{Pairs: pairs, Options: opts})
	if err != nil {
		return nil, err
	}

	merged := make([]app.PairResult, len(paths))
	for j, r := range res.Results {
		merged[slots[j]] = r
	}
	for i, r := range readFailures {
		merged[i] = r
	}
	res.Results = merged
	res.Failed += len(readFailures)
	return res, nil
}
