package app

import (
	"context"
	"testing"

	"hypotest/domain/stats"
	"hypotest/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_PreservesOrderAndIsolatesFailures(t *testing.T) {
	kit := testkit.NewTestKit(5)
	pairs := []stats.SamplePair{
		kit.ShiftedPair("shifted", 40, 10, 2, 0.8),
		{Name: "too-small", Baseline: []float64{1}, Enhanced: []float64{2, 3}},
		{Baseline: testkit.Constant(3, 1), Enhanced: testkit.Constant(3, 1)},
		{Name: "scores", Baseline: baselineScores, Enhanced: enhancedScores},
	}

	svc := NewBatchService(NewDefaultAnalysisService(), 2, nil)
	res, err := svc.Run(context.Background(), BatchRequest{Pairs: pairs, BatchID: "batch-1"})
	require.NoError(t, err)

	require.Len(t, res.Results, 4)
	assert.Equal(t, "batch-1", res.BatchID.String())
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 2, res.Failed)

	assert.Equal(t, "shifted", res.Results[0].Name)
	assert.NotNil(t, res.Results[0].Report)

	assert.Equal(t, "too-small", res.Results[1].Name)
	assert.Equal(t, "INVALID_INPUT", res.Results[1].Code)
	assert.Nil(t, res.Results[1].Report)
	assert.Error(t, res.Results[1].Err())

	assert.Equal(t, "pair-3", res.Results[2].Name)
	assert.Equal(t, "DEGENERATE_INPUT", res.Results[2].Code)

	assert.Equal(t, "scores", res.Results[3].Name)
	assert.InDelta(t, 15.4, res.Results[3].Report.Enhanced.Mean, 1e-12)
}

// Parallel runs produce the same reports as serial calls
func TestBatch_MatchesSerialAnalysis(t *testing.T) {
	kit := testkit.NewTestKit(77)
	var pairs []stats.SamplePair
	for i := 0; i < 12; i++ {
		pairs = append(pairs, kit.ShiftedPair("", 20+i, 0, 1, float64(i)/10))
	}

	analysis := NewDefaultAnalysisService()
	res, err := NewBatchService(analysis, 4, nil).Run(context.Background(), BatchRequest{Pairs: pairs})
	require.NoError(t, err)
	assert.False(t, res.BatchID.String() == "")

	for i, pair := range pairs {
		want, err := analysis.AnalyzePair(pair, stats.TestOptions{})
		require.NoError(t, err)
		assert.Equal(t, *want, *res.Results[i].Report, "pair %d", i)
	}
}

func TestBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pairs := []stats.SamplePair{{Baseline: baselineScores, Enhanced: enhancedScores}}
	_, err := NewBatchService(nil, 1, nil).Run(ctx, BatchRequest{Pairs: pairs})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
