//go:build unix

package tty

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// watchResize calls resize for every SIGWINCH until ctx is done. Signals
// arriving while resize runs coalesce into one pending notification.
func watchResize(ctx context.Context, resize func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			resize()
		}
	}
}
