package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionEvictor is implemented by service.PurchaseService.
type SessionEvictor interface {
	EvictIdle(ttl time.Duration) int
}

// SessionSweepWorker ends purchase sessions left idle for too long, which
// also abandons any submission they still have in flight.
type SessionSweepWorker struct {
	sessions SessionEvictor
	idleTTL  time.Duration
	interval time.Duration
}

// NewSessionSweepWorker constructs a SessionSweepWorker.
func NewSessionSweepWorker(sessions SessionEvictor, idleTTL, interval time.Duration) *SessionSweepWorker {
	return &SessionSweepWorker{
		sessions: sessions,
		idleTTL:  idleTTL,
		interval: interval,
	}
}

// Start begins the periodic sweep loop until context is canceled.
func (w *SessionSweepWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("idle_ttl", w.idleTTL).Msg("Starting session sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Session sweep worker stopped")
			return
		}
	}
}

func (w *SessionSweepWorker) run() {
	if n := w.sessions.EvictIdle(w.idleTTL); n > 0 {
		log.Info().Int("count", n).Msg("Evicted idle purchase sessions")
	}
}
