package claim

import (
	"context"
	"log/slog"
	"time"

	"github.com/delonrp/tokengate/tokengate/config"
)

// Sweeper periodically retires expired tokens. It runs independently of
// claim activity on a fixed tick; a failed cycle is abandoned and the next
// tick starts over from fresh state, which makes the tick the system's only
// retry mechanism.
type Sweeper struct {
	coordinator *Coordinator
	notifier    *Notifier
	interval    time.Duration
	shutdown    chan struct{}
}

// NewSweeper builds a sweeper over the coordinator. Notifications go out
// through the notifier after a cycle commits.
func NewSweeper(coordinator *Coordinator, notifier *Notifier, interval time.Duration) *Sweeper {
	return &Sweeper{
		coordinator: coordinator,
		notifier:    notifier,
		interval:    interval,
		shutdown:    make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		slog.Info("Expiration sweeper started",
			slog.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), config.SweepTimeout)
				s.sweepOnce(ctx)
				cancel()
			case <-s.shutdown:
				return
			}
		}
	}()
}

// Stop ends the sweep loop. A cycle already in flight finishes on its own.
func (s *Sweeper) Stop() {
	close(s.shutdown)
	slog.Info("Expiration sweeper stopped")
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	expired, err := s.coordinator.ExpireDue(ctx)
	if err != nil {
		slog.Error("Expiration sweep aborted, will retry next tick",
			slog.Any("error", err))
		return
	}
	if len(expired) == 0 {
		return
	}

	slog.Info("Expired tokens retired",
		slog.Int("count", len(expired)))

	// Expiry DMs are best effort and only go out once the writes committed.
	// Shared tokens have no user behind their synthetic key.
	for _, exp := range expired {
		if exp.Shared {
			continue
		}
		s.notifier.NotifyExpiry(ctx, exp.Key, exp.Token)
	}
}
