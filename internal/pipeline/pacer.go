package pipeline

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out external calls made on behalf of a run.
type Pacer interface {
	Pace(ctx context.Context) error
}

type intervalPacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a Pacer enforcing at most one call per interval.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return NopPacer{}
	}
	return &intervalPacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *intervalPacer) Pace(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NopPacer performs no pacing. Used in tests and when spacing is
// configured to zero.
type NopPacer struct{}

func (NopPacer) Pace(context.Context) error { return nil }
