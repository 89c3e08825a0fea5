package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/rs/zerolog"
)

// Exchanger sends one DNS message to one server. *dns.Client implements it.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// Resolver looks up hostnames against a fixed set of servers. It holds no
// per-lookup state and may be reused.
type Resolver struct {
	cfg    Config
	names  *dns.ClientConfig
	udp    Exchanger
	tcp    Exchanger
	logger zerolog.Logger
}

// New builds a Resolver. When cfg.Servers is empty the system resolv.conf
// supplies servers, search domains and ndots.
func New(cfg Config, logger zerolog.Logger) (*Resolver, error) {
	if len(cfg.Servers) == 0 {
		var err error
		cfg, err = SystemConfig(DefaultResolvConf, cfg)
		if err != nil {
			return nil, err
		}
	}
	if len(cfg.Servers) == 0 {
		return nil, errors.New("resolver: no nameservers configured")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("resolver: timeout must be > 0")
	}
	if cfg.Lifetime <= 0 {
		return nil, errors.New("resolver: lifetime must be > 0")
	}
	if cfg.Ndots <= 0 {
		cfg.Ndots = 1
	}

	servers := make([]string, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		servers = append(servers, withPort(s, "53"))
	}
	cfg.Servers = servers

	return &Resolver{
		cfg:    cfg,
		names:  &dns.ClientConfig{Search: cfg.Search, Ndots: cfg.Ndots},
		udp:    &dns.Client{Net: "udp", Timeout: cfg.Timeout},
		tcp:    &dns.Client{Net: "tcp", Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

// Resolve returns the addresses of hostname in answer order, following
// CNAMEs. It returns nil when nothing usable was found, including when a
// CNAME chain leads back to a name already tried in this call or when the
// configured lifetime runs out.
func (r *Resolver) Resolve(ctx context.Context, hostname string) []string {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Lifetime)
	defer cancel()

	tried := make(map[string]struct{})
	name := strings.TrimSpace(hostname)
	for {
		key := canonical(name)
		if key == "" {
			return nil
		}
		if _, ok := tried[key]; ok {
			r.logger.Debug().Str("name", name).Msg("already tried, giving up")
			return nil
		}
		tried[key] = struct{}{}

		r.logger.Debug().Str("name", name).Msg("starting check")

		addrs, next := r.resolveName(ctx, name)
		if len(addrs) > 0 {
			return addrs
		}
		if next == "" {
			return nil
		}
		name = next
	}
}

// resolveName runs the AAAA, A, CNAME sequence for a single name. It returns
// either addresses, or the CNAME target to continue with, or neither.
func (r *Resolver) resolveName(ctx context.Context, name string) ([]string, string) {
	for _, qtype := range []uint16{dns.TypeAAAA, dns.TypeA} {
		rrs, res := r.lookup(ctx, name, qtype)
		switch res {
		case answered:
			return addresses(rrs), ""
		case nxdomain:
			return nil, ""
		}
		if ctx.Err() != nil {
			return nil, ""
		}
	}

	rrs, res := r.lookup(ctx, name, dns.TypeCNAME)
	if res != answered {
		return nil, ""
	}
	// The target is absolute and is not expanded through the search list.
	target := dns.Fqdn(rrs[0].(*dns.CNAME).Target)
	r.logger.Debug().Str("name", name).Str("target", strings.TrimSuffix(target, ".")).Msg("following cname")
	return nil, target
}

type result int

const (
	// answered: at least one record of the requested type.
	answered result = iota
	// noAnswer covers NODATA, server failures and timeouts.
	noAnswer
	nxdomain
)

// lookup queries name, expanded through the search list, for qtype.
// Candidates that return NXDOMAIN move on to the next candidate; anything
// else settles the lookup.
func (r *Resolver) lookup(ctx context.Context, name string, qtype uint16) ([]dns.RR, result) {
	for _, fqdn := range r.names.NameList(name) {
		reply, err := r.exchange(ctx, fqdn, qtype)
		if err != nil {
			r.logger.Debug().Err(err).Str("name", fqdn).Str("type", dns.TypeToString[qtype]).Msg("query failed")
			return nil, noAnswer
		}
		if reply.Rcode == dns.RcodeNameError {
			continue
		}

		var rrs []dns.RR
		for _, rr := range reply.Answer {
			if rr.Header().Rrtype == qtype {
				r.logger.Debug().Str("answer", rr.String()).Msg("received answer")
				rrs = append(rrs, rr)
			}
		}
		if len(rrs) == 0 {
			return nil, noAnswer
		}
		return rrs, answered
	}
	return nil, nxdomain
}

var errNoServer = errors.New("no server answered")

// exchange sends the query to each server in turn and returns the first
// reply that is either NOERROR or NXDOMAIN.
func (r *Resolver) exchange(ctx context.Context, fqdn string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(fqdn, qtype)
	m.RecursionDesired = true

	err := errNoServer
	for _, server := range r.cfg.Servers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var reply *dns.Msg
		reply, err = r.exchangeOne(ctx, r.udp, m, server)
		if err == nil && reply.Truncated {
			reply, err = r.exchangeOne(ctx, r.tcp, m, server)
		}
		if err != nil {
			continue
		}

		switch reply.Rcode {
		case dns.RcodeSuccess, dns.RcodeNameError:
			return reply, nil
		default:
			err = fmt.Errorf("server %s replied %s", server, dns.RcodeToString[reply.Rcode])
		}
	}
	return nil, err
}

func (r *Resolver) exchangeOne(ctx context.Context, c Exchanger, m *dns.Msg, server string) (*dns.Msg, error) {
	qctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	reply, _, err := c.ExchangeContext(qctx, m, server)
	return reply, err
}

func addresses(rrs []dns.RR) []string {
	out := make([]string, 0, len(rrs))
	for _, rr := range rrs {
		switch v := rr.(type) {
		case *dns.AAAA:
			out = append(out, v.AAAA.String())
		case *dns.A:
			out = append(out, v.A.String())
		}
	}
	return out
}

// canonical returns the visited-set key for name, or "" if name cannot be
// queried at all.
func canonical(name string) string {
	name = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if name == "" {
		return ""
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return ""
	}
	return name
}
