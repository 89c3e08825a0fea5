package main

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/die-net/sshbind/internal/config"
)

func defaultConfig() config.Config {
	return config.Config{DNSTimeout: 2 * time.Second, DNSLifetime: 5 * time.Second, SSH: "ssh"}
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     options
		wantErr  string
		wantHelp bool
	}{
		{
			name: "host only",
			args: []string{"example.com"},
			want: options{Config: defaultConfig(), SSHArgs: []string{"example.com"}},
		},
		{
			name: "interface then ssh args",
			args: []string{"-i", "wlan0", "example.com", "-p", "2222"},
			want: options{
				Config:  withIface(defaultConfig(), "wlan0"),
				SSHArgs: []string{"example.com", "-p", "2222"},
			},
		},
		{
			name: "long flags",
			args: []string{"--interface=eth1", "--dns-server", "192.0.2.53", "--dns-server=192.0.2.54:5353",
				"--dns-timeout", "500ms", "--dns-lifetime", "3s", "--ssh", "/opt/ssh", "--dry-run", "--verbose", "host"},
			want: options{
				Config: config.Config{
					Interface:   "eth1",
					DNSServers:  []string{"192.0.2.53", "192.0.2.54:5353"},
					DNSTimeout:  500 * time.Millisecond,
					DNSLifetime: 3 * time.Second,
					SSH:         "/opt/ssh",
					Verbose:     true,
				},
				DryRun:  true,
				SSHArgs: []string{"host"},
			},
		},
		{
			name: "double dash forwards ssh flags",
			args: []string{"--", "-p", "2222", "10.0.0.5"},
			want: options{Config: defaultConfig(), SSHArgs: []string{"-p", "2222", "10.0.0.5"}},
		},
		{
			name: "no arguments",
			args: nil,
			want: options{Config: defaultConfig(), SSHArgs: []string{}},
		},
		{
			name: "verbose shorthand",
			args: []string{"-v", "host", "-v"},
			want: options{Config: withVerbose(defaultConfig()), SSHArgs: []string{"host", "-v"}},
		},
		{
			name:    "ssh flag before host needs double dash",
			args:    []string{"-p", "2222", "10.0.0.5"},
			wantErr: "unknown shorthand flag",
		},
		{
			name:    "bad timeout",
			args:    []string{"--dns-timeout", "0s", "host"},
			wantErr: "dns timeout must be > 0",
		},
		{
			name:     "help",
			args:     []string{"--help"},
			wantHelp: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			got, err := parseFlags(tt.args, defaultConfig(), &out)

			switch {
			case tt.wantHelp:
				if !errors.Is(err, pflag.ErrHelp) {
					t.Fatalf("err=%v want ErrHelp", err)
				}
				if !strings.Contains(out.String(), "Usage: sshbind") {
					t.Fatalf("usage not printed: %q", out.String())
				}
				return
			case tt.wantErr != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err=%v want %q", err, tt.wantErr)
				}
				return
			case err != nil:
				t.Fatalf("parseFlags: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func withIface(c config.Config, iface string) config.Config {
	c.Interface = iface
	return c
}

func withVerbose(c config.Config) config.Config {
	c.Verbose = true
	return c
}
