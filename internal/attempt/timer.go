package attempt

import (
	"context"
	"time"

	"github.com/edulane/edulane-api/internal/config"
)

// watch auto-submits the session once its budget runs out. One-second
// resolution is plenty for minute-scale limits, and the coarse tick keeps
// the goroutine cheap. A manual submit closes the done channel and the
// watcher exits without firing.
func (s *attemptService) watch(sess *Session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sess.done:
			return
		case <-ticker.C:
			if sess.remaining(s.clock.Now()) > 0 {
				continue
			}
			ctx := context.Background()
			if _, err := s.finalize(ctx, sess); err != nil {
				config.WithContext(ctx).WithError(err).
					WithField("attempt_id", sess.attempt.ID).
					Error("Auto-submit failed")
			}
			return
		}
	}
}
