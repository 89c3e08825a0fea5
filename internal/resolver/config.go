package resolver

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DefaultResolvConf is read when Config.Servers is empty.
const DefaultResolvConf = "/etc/resolv.conf"

type Config struct {
	// Servers are tried in order, as host or host:port (port 53 if absent).
	Servers []string
	// Search domains appended to names with fewer than Ndots dots.
	Search []string
	Ndots  int

	// Timeout bounds one query against one server.
	Timeout time.Duration
	// Lifetime bounds the whole Resolve call.
	Lifetime time.Duration
}

// SystemConfig reads nameservers, search domains and ndots from a
// resolv.conf file, keeping timeout and lifetime from base.
func SystemConfig(path string, base Config) (Config, error) {
	cc, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := base
	cfg.Servers = make([]string, 0, len(cc.Servers))
	for _, s := range cc.Servers {
		cfg.Servers = append(cfg.Servers, withPort(s, cc.Port))
	}
	cfg.Search = cc.Search
	cfg.Ndots = cc.Ndots
	return cfg, nil
}

func withPort(server, port string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	if port == "" {
		port = "53"
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), port)
}
