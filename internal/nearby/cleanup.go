package nearby

import (
	"context"
	"log"
	"time"
)

// Purger deletes chats that expired before a cutoff
type Purger interface {
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically deletes nearby chats once they have been expired for
// longer than the retention window
type Sweeper struct {
	purger    Purger
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

func NewSweeper(purger Purger, retention, interval time.Duration) *Sweeper {
	return &Sweeper{
		purger:    purger,
		retention: retention,
		interval:  interval,
		now:       time.Now,
	}
}

// Start sweeps once, then on every tick until ctx is done
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("Starting nearby chat sweeper with interval: %v", s.interval)

	s.run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.run(ctx)
		case <-ctx.Done():
			log.Println("Stopping nearby chat sweeper")
			return
		}
	}
}

// Sweep deletes chats that expired more than the retention window ago
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	return s.purger.PurgeExpired(ctx, s.now().Add(-s.retention))
}

func (s *Sweeper) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	purged, err := s.Sweep(ctx)
	if err != nil {
		log.Printf("⚠️  Nearby chat sweep failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("🧹 Purged %d expired nearby chats in %v", purged, time.Since(start))
	}
}
