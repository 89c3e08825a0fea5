package tty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Runner launches interactive children. The zero value uses the process's
// stdin and stdout.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Logger zerolog.Logger
}

// Launch runs name with args on a new pty and blocks until it exits. The
// returned code is the child's exit status, or 128+signal if it was killed
// by a signal. An error means the child could not be run at all.
func (r *Runner) Launch(ctx context.Context, name string, args []string) (int, error) {
	stdin, stdout := r.stdin(), r.stdout()

	cmd := exec.CommandContext(ctx, name, args...)
	ptmx, err := pty.StartWithSize(cmd, r.size(stdin, stdout))
	if err != nil {
		return 0, fmt.Errorf("start %s: %w", name, err)
	}
	defer ptmx.Close()

	if fd, ok := terminalFd(stdin); ok {
		state, err := term.MakeRaw(fd)
		if err != nil {
			r.Logger.Debug().Err(err).Msg("raw mode unavailable")
		} else {
			defer func() { _ = term.Restore(fd, state) }()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		watchResize(gctx, func() {
			if ws := r.size(stdin, stdout); ws != nil {
				if err := pty.Setsize(ptmx, ws); err != nil {
					r.Logger.Debug().Err(err).Msg("resize pty")
				}
			}
		})
		return nil
	})
	g.Go(func() error {
		// Reading the pty master fails with EIO once the child and all its
		// descendants have closed the terminal; that is the normal end.
		if _, err := io.Copy(stdout, ptmx); err != nil && !errors.Is(err, syscall.EIO) {
			return fmt.Errorf("copy output: %w", err)
		}
		return nil
	})

	// Not part of the group: a read from the user's terminal cannot be
	// interrupted and would keep Launch from returning.
	go func() {
		_, _ = io.Copy(ptmx, stdin)
	}()

	waitErr := cmd.Wait()
	cancel()
	if err := g.Wait(); err != nil {
		r.Logger.Debug().Err(err).Msg("session output")
	}

	return exitStatus(waitErr)
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

// size reads the local terminal geometry from stdin, or stdout if stdin is
// not a terminal. It returns nil when neither is.
func (r *Runner) size(stdin io.Reader, stdout io.Writer) *pty.Winsize {
	for _, v := range []any{stdin, stdout} {
		fd, ok := terminalFd(v)
		if !ok {
			continue
		}
		cols, rows, err := term.GetSize(fd)
		if err != nil || cols <= 0 || rows <= 0 {
			continue
		}
		return &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)} //nolint:gosec // Terminal sizes fit in uint16.
	}
	return nil
}

func terminalFd(v any) (int, bool) {
	f, ok := v.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd()) //nolint:gosec // File descriptors fit in int.
	return fd, term.IsTerminal(fd)
}

func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 0, fmt.Errorf("wait: %w", err)
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal()), nil
	}
	return exitErr.ExitCode(), nil
}
