package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"INTERFACE", "DNS_SERVERS", "DNS_TIMEOUT", "DNS_LIFETIME", "SSH", "VERBOSE"} {
		key := Prefix + "_" + k
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		DNSTimeout:  2 * time.Second,
		DNSLifetime: 5 * time.Second,
		SSH:         "ssh",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("got %+v want %+v", cfg, want)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SSHBIND_INTERFACE", "wlan0")
	t.Setenv("SSHBIND_DNS_SERVERS", "192.0.2.53,[2001:db8::53]:5353")
	t.Setenv("SSHBIND_DNS_TIMEOUT", "750ms")
	t.Setenv("SSHBIND_DNS_LIFETIME", "3s")
	t.Setenv("SSHBIND_SSH", "/usr/local/bin/ssh")
	t.Setenv("SSHBIND_VERBOSE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		Interface:   "wlan0",
		DNSServers:  []string{"192.0.2.53", "[2001:db8::53]:5353"},
		DNSTimeout:  750 * time.Millisecond,
		DNSLifetime: 3 * time.Second,
		SSH:         "/usr/local/bin/ssh",
		Verbose:     true,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("got %+v want %+v", cfg, want)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "bad duration", key: "SSHBIND_DNS_TIMEOUT", value: "soon", wantErr: "load config"},
		{name: "zero timeout", key: "SSHBIND_DNS_TIMEOUT", value: "0s", wantErr: "dns timeout"},
		{name: "negative lifetime", key: "SSHBIND_DNS_LIFETIME", value: "-1s", wantErr: "dns lifetime"},
		{name: "bad bool", key: "SSHBIND_VERBOSE", value: "maybe", wantErr: "load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}
