package application

import (
	"context"
	"log"
	"time"
)

// Syncer is the scheduler's view of the engine.
type Syncer interface {
	Sync(ctx context.Context, force bool)
}

// Scheduler drives the engine on a fixed master tick. Per-source cadence is
// the engine's concern; the scheduler only guarantees the heartbeat.
type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	logger   *log.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler constructs a scheduler ticking at interval.
func NewScheduler(syncer Syncer, interval time.Duration, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{syncer: syncer, interval: interval, logger: logger}
}

// Start runs the bootstrap pass, then ticks until ctx is cancelled or Stop is
// called. It returns after launching the loop.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.logger.Printf("scheduler: bootstrap pass")
		s.syncer.Sync(ctx, true)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.syncer.Sync(ctx, false)
			}
		}
	}()
}

// Stop cancels the loop and waits for the current pass to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}
