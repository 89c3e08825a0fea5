//go:build !unix

package tty

import (
	"context"
)

func watchResize(ctx context.Context, _ func()) {
	<-ctx.Done()
}
