package ports

import (
	"context"

	"hypotest/domain/stats"
)

// SampleReader loads one baseline/enhanced pair from an external source.
// Malformed content is reported as core.ErrInvalidInput so callers can
// treat it like any other bad sample.
type SampleReader interface {
	ReadSamples(ctx context.Context) (stats.SamplePair, error)
}
