package lifecycle

import (
	"context"
	"time"

	"github.com/tilinna/clock"
)

// newAdvancingClock attaches a mock clock to ctx that jumps to the next timer
// as soon as one is armed. The returned func stops it.
func newAdvancingClock(ctx context.Context) (context.Context, *clock.Mock, func()) {
	clck := clock.NewMock(time.Unix(1, 0))
	ctx = clock.Context(ctx, clck)
	ch := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				return
			case <-ctx.Done():
				return
			default:
				if _, d := clck.AddNext(); d == 0 {
					time.Sleep(1)
				}
			}
		}
	}()
	return ctx, clck, func() {
		close(ch)
	}
}
