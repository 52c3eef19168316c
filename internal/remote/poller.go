package remote

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/chorus-network/chorus/internal/domain"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultMaxPollFailures = 3
)

// Poller drives the status state machine for a submitted task: poll on
// a fixed interval, translate progress changes into display units, and
// stop on a terminal phase or context cancellation.
type Poller struct {
	// Interval between status queries. Defaults to 2s.
	Interval time.Duration
	// MaxPollFailures is how many consecutive failed polls are
	// tolerated before the run is abandoned. Defaults to 3.
	MaxPollFailures int
}

// Wait blocks until the task reaches a terminal phase. On each poll
// whose progress differs from the previous one, advance is called with
// round(delta * units) so a bar sized in chunk units tracks the remote
// fraction. Failed, Aborted and Timeout phases end the wait with
// ErrTaskFailed instead of being polled past.
func (p Poller) Wait(ctx context.Context, c Client, taskID string, units int, advance func(n int)) error {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxFailures := p.MaxPollFailures
	if maxFailures <= 0 {
		maxFailures = defaultMaxPollFailures
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastProgress := 0.0
	failures := 0

	for {
		st, err := c.GetTask(ctx, taskID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			slog.Debug("status poll failed", "task", taskID, "attempt", failures, "err", err)
			if failures >= maxFailures {
				return fmt.Errorf("%w: %v", domain.ErrPollExhausted, err)
			}
		default:
			failures = 0

			if st.Progress != lastProgress {
				delta := st.Progress - lastProgress
				lastProgress = st.Progress
				if advance != nil {
					advance(int(math.Round(delta * float64(units))))
				}
			}

			if st.Phase == domain.PhaseFinished {
				return nil
			}
			if st.Phase.Failure() {
				return fmt.Errorf("%w: phase %s", domain.ErrTaskFailed, st.Phase)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
