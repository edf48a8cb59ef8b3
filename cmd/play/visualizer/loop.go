package visualizer

import (
	"context"
	"time"
)

// Loop draws one frame per tick.
type Loop struct {
	Session *Session
	// OnFrame receives each rendered frame. It must not block for long.
	OnFrame func(frame string)
}

// Run draws until ctx is cancelled or ticks is closed. Tests drive it by
// sending on ticks directly.
func (l *Loop) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			l.Session.Frame()
			if l.OnFrame != nil {
				l.OnFrame(l.Session.Render())
			}
		}
	}
}

// RunAt runs the loop on a ticker at fps frames per second.
func (l *Loop) RunAt(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	return l.Run(ctx, ticker.C)
}
