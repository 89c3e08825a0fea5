package testutil

import (
	"context"
	"net"
	"testing"

	"github.com/miekg/dns"
)

// StartDNSServer serves handler over UDP on a random loopback port until ctx
// is done or the test ends, and returns the server's host:port.
func StartDNSServer(t *testing.T, ctx context.Context, handler dns.Handler) string {
	t.Helper()

	lc := net.ListenConfig{}
	pc, err := lc.ListenPacket(ctx, "udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		Handler:           handler,
		NotifyStartedFunc: func() { close(started) },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.ActivateAndServe()
	}()
	<-started

	stop := context.AfterFunc(ctx, func() { _ = srv.Shutdown() })
	t.Cleanup(func() {
		if stop() {
			_ = srv.Shutdown()
		}
		<-done
	})

	return pc.LocalAddr().String()
}
