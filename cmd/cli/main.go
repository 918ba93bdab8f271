package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"hypotest/internal"
	"hypotest/internal/config"
	apperrors "hypotest/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is normal; the process environment is used as is
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return apperrors.ExitCode(err)
	}
	logger := internal.NewLoggerTo(stderr, cfg.Log.Level)

	rootCmd := newRootCmd(cfg, logger)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("%v", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

func newRootCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hypotest",
		Short: "Two-sample hypothesis testing for baseline vs enhanced measurements",
		Long: `hypotest compares a baseline sample with an enhanced sample.

It runs a Welch (or pooled) t-test, computes Cohen's d and estimates the
power of the design. Reports are printed as JSON on stdout; logs go to stderr.

Defaults are read from the environment (and a .env file if present):
- HYPOTEST_CONFIDENCE_LEVEL (default: 0.95)
- HYPOTEST_EQUAL_VARIANCE (default: false)
- HYPOTEST_POWER_TARGET (default: 0.8)
- HYPOTEST_BATCH_CONCURRENCY (default: number of CPUs)
- HYPOTEST_BATCH_TIMEOUT (default: none)
- LOG_LEVEL (default: INFO)

Exit codes: 0 success, 2 invalid or degenerate input, 1 anything else.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(cfg, logger),
		newPowerCmd(cfg),
		newBatchCmd(cfg, logger),
	)

	return rootCmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
