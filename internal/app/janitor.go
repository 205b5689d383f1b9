package app

import (
	"context"
	"time"

	"github.com/yungbote/moodly-backend/internal/observability"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

type tokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// runTokenJanitor removes expired sessions every interval until ctx ends.
// A non-positive interval disables it.
func runTokenJanitor(ctx context.Context, log *logger.Logger, purger tokenPurger, every time.Duration) {
	if purger == nil || every <= 0 {
		return
	}
	log = log.With("component", "TokenJanitor")
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purger.PurgeExpiredTokens(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("expired token purge failed", "error", err)
				}
				continue
			}
			observability.Current().TokensPurged(n)
			if n > 0 {
				log.Debug("expired tokens purged", "count", n)
			}
		}
	}
}
