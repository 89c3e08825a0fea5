package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/die-net/sshbind/internal/ipclass"
	"github.com/die-net/sshbind/internal/target"
)

// ErrNoTarget means no forwarded argument named a usable host or IP.
var ErrNoTarget = errors.New("you must provide a hostname or IP for ssh")

// ssh flags injected ahead of the user's arguments.
const (
	forcePTYFlag      = "-tt"
	bindInterfaceFlag = "-B"
	bindAddressFlag   = "-b"
)

type Locator interface {
	Locate(ctx context.Context, tokens []string) target.Result
}

type Selector interface {
	DefaultInterface() (string, error)
	CheckUp(name string) error
	StableAddress(name string) (netip.Addr, error)
}

type Launcher interface {
	Launch(ctx context.Context, name string, args []string) (int, error)
}

type Config struct {
	// SSH is the ssh executable to launch.
	SSH string
	// DryRun prints the ssh command line instead of running it.
	DryRun bool
	// Stdout receives the dry-run command line. Defaults to os.Stdout.
	Stdout io.Writer
}

// Request is one invocation of sshbind.
type Request struct {
	// Interface to bind to; empty means the default route's interface.
	Interface string
	// Args are forwarded to ssh verbatim.
	Args []string
}

// Decision is the outcome of classification, fixed before launch.
type Decision struct {
	Class     ipclass.Class
	Interface string
	// Source is the bound source address; invalid on the LAN path.
	Source netip.Addr
	// Target is the argument that decided the class.
	Target string
}

// Argv returns the ssh arguments for this decision: the forced pty flag,
// the bind flags on the WAN path, then args.
func (d Decision) Argv(args []string) []string {
	argv := make([]string, 0, len(args)+5)
	argv = append(argv, forcePTYFlag)
	if d.Class == ipclass.WAN {
		argv = append(argv, bindInterfaceFlag, d.Interface, bindAddressFlag, d.Source.String())
	}
	return append(argv, args...)
}

type Dispatcher struct {
	cfg      Config
	locator  Locator
	selector Selector
	launcher Launcher
	logger   zerolog.Logger
}

func New(cfg Config, locator Locator, selector Selector, launcher Launcher, logger zerolog.Logger) *Dispatcher {
	if cfg.SSH == "" {
		cfg.SSH = "ssh"
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	return &Dispatcher{
		cfg:      cfg,
		locator:  locator,
		selector: selector,
		launcher: launcher,
		logger:   logger,
	}
}

// Run classifies req and launches ssh, returning ssh's exit status.
func (d *Dispatcher) Run(ctx context.Context, req Request) (int, error) {
	if len(req.Args) == 0 {
		return 0, ErrNoTarget
	}

	dec, err := d.Decide(ctx, req)
	if err != nil {
		return 0, err
	}

	argv := dec.Argv(req.Args)
	d.logger.Debug().Str("ssh", d.cfg.SSH).Strs("argv", argv).Msg("launching")

	if d.cfg.DryRun {
		line := append([]string{d.cfg.SSH}, argv...)
		if _, err := fmt.Fprintln(d.cfg.Stdout, strings.Join(line, " ")); err != nil {
			return 0, fmt.Errorf("write command line: %w", err)
		}
		return 0, nil
	}

	code, err := d.launcher.Launch(ctx, d.cfg.SSH, argv)
	if err != nil {
		return 0, fmt.Errorf("launch %s: %w", d.cfg.SSH, err)
	}
	return code, nil
}

// Decide validates the interface, classifies the target and, for WAN
// targets, selects the source address.
func (d *Dispatcher) Decide(ctx context.Context, req Request) (Decision, error) {
	iface, err := d.validateInterface(req.Interface)
	if err != nil {
		return Decision{}, err
	}

	res := d.locator.Locate(ctx, req.Args)
	if res.Class == ipclass.None {
		return Decision{}, ErrNoTarget
	}

	dec := Decision{Class: res.Class, Interface: iface, Target: res.Token}
	ev := d.logger.Debug().Str("target", res.Token).Str("address", res.Address).Stringer("class", res.Class)

	if res.Class == ipclass.WAN {
		dec.Source, err = d.selector.StableAddress(iface)
		if err != nil {
			return Decision{}, err
		}
		ev = ev.Str("interface", iface).Stringer("source", dec.Source)
	}
	ev.Msg("classified")

	return dec, nil
}

func (d *Dispatcher) validateInterface(name string) (string, error) {
	if name == "" {
		var err error
		name, err = d.selector.DefaultInterface()
		if err != nil {
			return "", fmt.Errorf("default interface: %w", err)
		}
		d.logger.Debug().Str("interface", name).Msg("using default interface")
	}

	if err := d.selector.CheckUp(name); err != nil {
		return "", err
	}
	return name, nil
}
