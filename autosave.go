package pressroom

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Autosaver periodically persists dirty editor states. It never creates an
// article and does not coordinate with manual saves: the last write wins.
type Autosaver struct {
	sessions *SessionRegistry
	save     func(ctx context.Context, s *AdminSession, f ArticleForm) error
	interval time.Duration
	log      zerolog.Logger
}

// Run ticks until ctx is done.
func (as *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(as.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			as.Tick(ctx)
		}
	}
}

// Tick saves every dirty edit state once. Failures are logged and dropped.
func (as *Autosaver) Tick(ctx context.Context) int {
	saved := 0
	for _, s := range as.sessions.All() {
		f, ok := s.takeDirty()
		if !ok {
			continue
		}
		if err := as.save(ctx, s, f); err != nil {
			as.log.Warn().Err(err).Str("article", f.ID).Str("admin", s.Email).Msg("autosave failed")
			continue
		}
		saved++
		as.log.Debug().Str("article", f.ID).Msg("autosaved")
	}
	return saved
}
