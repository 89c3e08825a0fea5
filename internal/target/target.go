package target

import (
	"context"
	"net"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/die-net/sshbind/internal/ipclass"
)

// Resolver resolves a hostname to address literals; nil means nothing usable.
type Resolver interface {
	Resolve(ctx context.Context, hostname string) []string
}

// Result is the outcome of a scan. Token and Address are empty when Class is
// ipclass.None.
type Result struct {
	Class ipclass.Class
	// Token is the argument that decided the class.
	Token string
	// Address is the literal or resolved address that decided the class.
	Address string
}

type Locator struct {
	resolver Resolver
	logger   zerolog.Logger
}

func New(resolver Resolver, logger zerolog.Logger) *Locator {
	return &Locator{resolver: resolver, logger: logger}
}

// Locate scans tokens for the first host or IP literal that classifies as
// LAN or WAN. Tokens that fail to resolve do not stop the scan.
func (l *Locator) Locate(ctx context.Context, tokens []string) Result {
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || strings.HasPrefix(tok, "-") {
			continue
		}

		host := Host(tok)
		l.logger.Debug().Str("token", tok).Str("host", host).Msg("checking")
		if host == "" {
			continue
		}

		if class := ipclass.Classify(host); class != ipclass.None {
			l.logger.Debug().Str("address", host).Stringer("class", class).Msg("ip literal")
			return Result{Class: class, Token: tok, Address: host}
		}

		addrs := l.resolver.Resolve(ctx, host)
		for _, addr := range addrs {
			class := ipclass.Classify(addr)
			l.logger.Debug().Str("host", host).Str("address", addr).Stringer("class", class).Msg("resolved")
			if class != ipclass.None {
				return Result{Class: class, Token: tok, Address: addr}
			}
		}
	}

	return Result{Class: ipclass.None}
}

// Host extracts the host part of an ssh destination token: "user@host",
// "[v6]:port" and "ssh://user@host:port" forms are reduced to the host.
// Anything else is returned unchanged.
func Host(token string) string {
	if strings.HasPrefix(token, "ssh://") {
		u, err := url.Parse(token)
		if err != nil {
			return ""
		}
		return u.Hostname()
	}

	if i := strings.LastIndex(token, "@"); i >= 0 {
		token = token[i+1:]
	}
	if strings.HasPrefix(token, "[") {
		if host, _, err := net.SplitHostPort(token); err == nil {
			return host
		}
		return strings.Trim(token, "[]")
	}
	return token
}
