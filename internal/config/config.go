// Package config loads sshbind's environment defaults.
//
// Every setting can also be given as a command-line flag; the environment
// only supplies the flag defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. SSHBIND_DNS_TIMEOUT.
const Prefix = "SSHBIND"

type Config struct {
	// Interface to bind WAN connections to. Empty selects the interface of
	// the default route.
	Interface string `envconfig:"INTERFACE"`
	// DNSServers overrides the resolv.conf nameservers (host or host:port).
	DNSServers []string `envconfig:"DNS_SERVERS"`
	// DNSTimeout bounds a single DNS query against a single server.
	DNSTimeout time.Duration `envconfig:"DNS_TIMEOUT" default:"2s"`
	// DNSLifetime bounds the whole resolution of one hostname.
	DNSLifetime time.Duration `envconfig:"DNS_LIFETIME" default:"5s"`
	// SSH is the ssh client executable.
	SSH string `envconfig:"SSH" default:"ssh"`
	// Verbose enables debug logging.
	Verbose bool `envconfig:"VERBOSE"`
}

// Load reads the environment into a Config with defaults applied.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that flags and the environment can both set.
func (c Config) Validate() error {
	if c.DNSTimeout <= 0 {
		return errors.New("dns timeout must be > 0")
	}
	if c.DNSLifetime <= 0 {
		return errors.New("dns lifetime must be > 0")
	}
	if c.SSH == "" {
		return errors.New("ssh command must not be empty")
	}
	return nil
}
