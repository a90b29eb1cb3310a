package encryption

import (
	"context"
	"time"

	"go.vocdoni.io/dvote/log"
)

// DefaultCheckInterval is how often the rotation worker checks the age of
// the active key.
const DefaultCheckInterval = time.Hour

// StartRotationWorker checks on every tick whether the active key is due for
// rotation until ctx is cancelled. It does not block.
func (s *Service) StartRotationWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	log.Infow("starting encryption key rotation worker", "interval", interval.String(), "period", s.period.String())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Infow("encryption key rotation worker stopped")
				return
			case <-ticker.C:
				rotated, err := s.RotateIfDue(ctx)
				if err != nil {
					log.Warnw("encryption key rotation failed", "error", err)
					continue
				}
				if rotated {
					log.Infow("encryption key rotation completed", "active", s.ActiveKeyID())
				} else {
					log.Debugw("encryption key not due for rotation", "active", s.ActiveKeyID())
				}
			}
		}
	}()
}
