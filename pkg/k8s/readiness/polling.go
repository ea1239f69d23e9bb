// Package readiness polls cluster state until resources reach their desired
// condition or a deadline expires.
package readiness

import (
	"context"
	"fmt"
	"time"
)

// DefaultPollInterval is the delay between readiness probes.
const DefaultPollInterval = 2 * time.Second

// Probe checks a single readiness condition. It returns true when the
// condition is met. Returning an error aborts polling; transient failures
// should return (false, nil) to keep polling.
type Probe func(ctx context.Context) (bool, error)

// PollForReadiness invokes probe at a fixed interval until it reports ready,
// the deadline expires, or the context is cancelled.
func PollForReadiness(ctx context.Context, deadline time.Duration, probe Probe) error {
	return pollWithInterval(ctx, deadline, DefaultPollInterval, probe)
}

func pollWithInterval(
	ctx context.Context,
	deadline time.Duration,
	interval time.Duration,
	probe Probe,
) error {
	pollCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ready, err := probe(pollCtx)
		if err != nil {
			return fmt.Errorf("readiness probe failed: %w", err)
		}

		if ready {
			return nil
		}

		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				return fmt.Errorf("readiness wait cancelled: %w", ctx.Err())
			}

			return ErrTimeoutExceeded
		case <-ticker.C:
		}
	}
}
