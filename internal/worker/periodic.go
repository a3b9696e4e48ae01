// Package worker runs jobs on a fixed interval.
package worker

import (
	"context"
	"errors"
	"time"
)

// Job is one run of periodic work. now is the time the run was scheduled.
type Job func(ctx context.Context, now time.Time)

// ErrInvalidInterval is returned for intervals that are not positive.
var ErrInvalidInterval = errors.New("worker: interval must be positive")

// Periodic runs job immediately, then once per interval, until ctx is
// cancelled. Runs never overlap: a tick that fires while job is running is
// dropped. It returns nil once ctx is done.
func Periodic(ctx context.Context, interval time.Duration, job Job) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	job(ctx, time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			job(ctx, now)
		}
	}
}
