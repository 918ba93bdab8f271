package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal"
	apperrors "hypotest/internal/errors"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BatchService fans independent sample pairs out over a bounded worker pool
type BatchService struct {
	analysis    *AnalysisService
	concurrency int64
	logger      *internal.Logger
}

// BatchRequest defines the inputs for a batch run
type BatchRequest struct {
	Pairs   []stats.SamplePair
	Options stats.TestOptions
	BatchID core.BatchID // optional, will be generated if empty
}

// PairResult holds the outcome for one pair. Exactly one of Report and Error is set.
type PairResult struct {
	Name   string                `json:"name"`
	Report *stats.AnalysisReport `json:"report,omitempty"`
	Error  string                `json:"error,omitempty"`
	Code   string                `json:"code,omitempty"`

	err error
}

// Err returns the analysis error for this pair, if any
func (r PairResult) Err() error {
	return r.err
}

// FailedPair records a pair that could not be analyzed, for example
// because its source could not be read
func FailedPair(name string, err error) PairResult {
	return PairResult{Name: name, Error: err.Error(), Code: apperrors.GetCode(err), err: err}
}

// BatchResult contains the per-pair results in input order
type BatchResult struct {
	BatchID   core.BatchID   `json:"batch_id"`
	StartedAt core.Timestamp `json:"started_at"`
	RuntimeMs int64          `json:"runtime_ms"`
	Results   []PairResult   `json:"results"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// NewBatchService creates a batch service. concurrency <= 0 uses GOMAXPROCS.
func NewBatchService(analysis *AnalysisService, concurrency int, logger *internal.Logger) *BatchService {
	if analysis == nil {
		analysis = NewDefaultAnalysisService()
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	return &BatchService{analysis: analysis, concurrency: int64(concurrency), logger: logger}
}

// Run analyzes every pair. A failing pair is recorded on its result and does
// not stop the others; only context cancellation aborts the batch.
func (s *BatchService) Run(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	startTime := time.Now()

	batchID := req.BatchID
	if batchID == "" {
		batchID = core.BatchID(core.NewID())
	}

	results := make([]PairResult, len(req.Pairs))
	sem := semaphore.NewWeighted(s.concurrency)
	g, gCtx := errgroup.WithContext(ctx)

	s.logger.Info("batch %s: analyzing %d pairs with concurrency %d", batchID, len(req.Pairs), s.concurrency)

	for i, pair := range req.Pairs {
		if err := sem.Acquire(gCtx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = s.analyzeOne(i, pair, req.Options)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %s cancelled: %w", batchID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch %s cancelled: %w", batchID, err)
	}

	out := &BatchResult{
		BatchID:   batchID,
		StartedAt: core.NewTimestamp(startTime),
		RuntimeMs: time.Since(startTime).Milliseconds(),
		Results:   results,
	}
	for _, r := range results {
		if r.err != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}

	s.logger.Info("batch %s: %d succeeded, %d failed in %dms", batchID, out.Succeeded, out.Failed, out.RuntimeMs)
	return out, nil
}

func (s *BatchService) analyzeOne(index int, pair stats.SamplePair, opts stats.TestOptions) PairResult {
	name := pair.Name
	if name == "" {
		name = fmt.Sprintf("pair-%d", index+1)
	}

	report, err := s.analysis.AnalyzePair(pair, opts)
	if err != nil {
		s.logger.Warn("pair %s: %v", name, err)
		return FailedPair(name, err)
	}
	return PairResult{Name: name, Report: report}
}
