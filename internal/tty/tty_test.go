//go:build unix

package tty

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
)

func requirePTY(t *testing.T) {
	t.Helper()

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	_ = tty.Close()
	_ = ptmx.Close()
}

func TestLaunch(t *testing.T) {
	t.Parallel()
	requirePTY(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:     "output and exit status",
			args:     []string{"-c", "printf hello; exit 3"},
			wantCode: 3,
			wantOut:  "hello",
		},
		{
			name:     "arguments passed verbatim",
			args:     []string{"-c", `printf '%s|' "$@"`, "sh", "-tt", "b c"},
			wantCode: 0,
			wantOut:  "-tt|b c|",
		},
		{
			name:     "runs on a terminal",
			args:     []string{"-c", "test -t 0 && test -t 1 && printf tty"},
			wantCode: 0,
			wantOut:  "tty",
		},
		{
			name:     "killed by signal",
			args:     []string{"-c", "kill -TERM $$"},
			wantCode: 128 + 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			var out bytes.Buffer
			r := &Runner{Stdin: strings.NewReader(""), Stdout: &out, Logger: zerolog.Nop()}

			code, err := r.Launch(ctx, "/bin/sh", tt.args)
			if err != nil {
				t.Fatalf("Launch: %v", err)
			}
			if code != tt.wantCode {
				t.Fatalf("exit code %d want %d (output %q)", code, tt.wantCode, out.String())
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Fatalf("output %q does not contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestLaunchMissingBinary(t *testing.T) {
	t.Parallel()

	r := &Runner{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}}
	_, err := r.Launch(context.Background(), "/nonexistent/ssh", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "start /nonexistent/ssh") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSizeWithoutTerminal(t *testing.T) {
	t.Parallel()

	r := &Runner{}
	if ws := r.size(strings.NewReader(""), &bytes.Buffer{}); ws != nil {
		t.Fatalf("size = %+v, want nil", ws)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Not parallel: SIGWINCH is delivered to the whole test process.
func TestLaunchFollowsResize(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 10, Cols: 20}); err != nil {
		t.Fatalf("Setsize: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := &syncBuffer{}
	r := &Runner{Stdin: tty, Stdout: out, Logger: zerolog.Nop()}

	type result struct {
		code int
		err  error
	}
	done := make(chan result, 1)
	go func() {
		code, err := r.Launch(ctx, "/bin/sh", []string{"-c", "stty size; sleep 2; stty size"})
		done <- result{code, err}
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "10 20") {
		if time.Now().After(deadline) {
			t.Fatalf("initial size not seen, output %q", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 33, Cols: 77}); err != nil {
		t.Fatalf("Setsize: %v", err)
	}

	// Repeat until the child exits in case the watcher was not yet
	// registered when the first signal arrived.
	var res result
	for waiting := true; waiting; {
		if err := syscall.Kill(os.Getpid(), syscall.SIGWINCH); err != nil {
			t.Fatalf("kill: %v", err)
		}
		select {
		case res = <-done:
			waiting = false
		case <-time.After(100 * time.Millisecond):
		}
	}
	if res.err != nil || res.code != 0 {
		t.Fatalf("Launch = %d, %v (output %q)", res.code, res.err, out.String())
	}
	if !strings.Contains(out.String(), "33 77") {
		t.Fatalf("resized geometry not applied, output %q", out.String())
	}
}
