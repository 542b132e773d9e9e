package drivers

import (
	"context"
	"time"

	"jon/internal/driverclient"
)

// Idle is builtin driver index 0: the per-CPU idle task the scheduler
// runs when a ready queue is empty (spec.md §4.2 step 1, §6). It never
// blocks on a pipe; it just yields the CPU back every tick.
func Idle(ctx context.Context, c *driverclient.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		c.GetPID()
		time.Sleep(time.Millisecond)
	}
}
