package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/die-net/sshbind/internal/config"
	"github.com/die-net/sshbind/internal/logging"
	"github.com/die-net/sshbind/internal/netif"
	"github.com/die-net/sshbind/internal/resolver"
	"github.com/die-net/sshbind/internal/session"
	"github.com/die-net/sshbind/internal/target"
	"github.com/die-net/sshbind/internal/tty"
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	os.Exit(code)
}

type options struct {
	config.Config

	DryRun  bool
	SSHArgs []string
}

func run(args []string) (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return 0, err
	}

	opts, err := parseFlags(args, cfg, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	logger := logging.New(os.Stderr, opts.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := resolver.New(resolver.Config{
		Servers:  opts.DNSServers,
		Timeout:  opts.DNSTimeout,
		Lifetime: opts.DNSLifetime,
	}, logger.With().Str("component", "resolver").Logger())
	if err != nil {
		return 0, err
	}

	selector, closeTable, err := netif.NewSystem()
	if err != nil {
		return 0, err
	}
	defer closeTable() //nolint:errcheck // Read-only netlink socket.

	d := session.New(
		session.Config{SSH: opts.SSH, DryRun: opts.DryRun},
		target.New(res, logger.With().Str("component", "target").Logger()),
		selector,
		&tty.Runner{Logger: logger},
		logger,
	)

	return d.Run(ctx, session.Request{Interface: opts.Interface, Args: opts.SSHArgs})
}

// parseFlags parses sshbind's own flags. Parsing stops at the first
// non-flag argument or at "--"; everything after that is for ssh.
func parseFlags(args []string, cfg config.Config, output io.Writer) (options, error) {
	fs := pflag.NewFlagSet("sshbind", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SortFlags = false
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(output, "Usage: sshbind [flags] [--] ssh-args...")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Runs ssh, binding connections to WAN hosts to an interface and its stable IPv6 address.")
		fmt.Fprintln(output)
		fs.PrintDefaults()
	}

	var (
		iface       = fs.StringP("interface", "i", cfg.Interface, "Network interface for WAN connections (default: interface of the default route)")
		dnsServers  = fs.StringSlice("dns-server", cfg.DNSServers, "DNS server as host or host:port, repeatable (default: nameservers from /etc/resolv.conf)")
		dnsTimeout  = fs.Duration("dns-timeout", cfg.DNSTimeout, "Timeout for a single DNS query")
		dnsLifetime = fs.Duration("dns-lifetime", cfg.DNSLifetime, "Time limit for resolving the target hostname")
		sshPath     = fs.String("ssh", cfg.SSH, "ssh client executable")
		dryRun      = fs.Bool("dry-run", false, "Print the ssh command line instead of running it")
		verbose     = fs.BoolP("verbose", "v", cfg.Verbose, "Enable debug logging")
	)

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{
		Config: config.Config{
			Interface:   *iface,
			DNSServers:  *dnsServers,
			DNSTimeout:  *dnsTimeout,
			DNSLifetime: *dnsLifetime,
			SSH:         *sshPath,
			Verbose:     *verbose,
		},
		DryRun:  *dryRun,
		SSHArgs: fs.Args(),
	}
	if err := opts.Validate(); err != nil {
		return options{}, fmt.Errorf("invalid flags: %w", err)
	}
	return opts, nil
}
