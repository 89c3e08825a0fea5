package ipclass

import (
	"net/netip"
)

// IANA IPv4 Special-Purpose Address Registry entries that are not globally
// reachable. Private, loopback, link-local and multicast ranges are handled
// by the netip predicates and are repeated here only where netip is silent.
var nonGlobal4 = prefixes(
	"0.0.0.0/8",          // "this network"
	"10.0.0.0/8",         // RFC 1918
	"100.64.0.0/10",      // shared address space (CGN)
	"127.0.0.0/8",        // loopback
	"169.254.0.0/16",     // link-local
	"172.16.0.0/12",      // RFC 1918
	"192.0.0.0/24",       // IETF protocol assignments
	"192.0.2.0/24",       // TEST-NET-1
	"192.88.99.0/24",     // deprecated 6to4 relay anycast
	"192.168.0.0/16",     // RFC 1918
	"198.18.0.0/15",      // benchmarking
	"198.51.100.0/24",    // TEST-NET-2
	"203.0.113.0/24",     // TEST-NET-3
	"224.0.0.0/4",        // multicast
	"240.0.0.0/4",        // reserved
	"255.255.255.255/32", // limited broadcast
)

// Globally reachable exceptions inside nonGlobal4.
var global4 = prefixes(
	"192.0.0.9/32",  // port control protocol anycast
	"192.0.0.10/32", // traversal using relays around NAT anycast
)

// IANA IPv6 Special-Purpose Address Registry entries that are not globally
// reachable. IPv4-mapped addresses are unmapped before lookup and never
// reach this table.
var nonGlobal6 = prefixes(
	"::/128",          // unspecified
	"::1/128",         // loopback
	"64:ff9b:1::/48",  // local-use IPv4/IPv6 translation
	"100::/64",        // discard-only
	"2001::/23",       // IETF protocol assignments
	"2001:db8::/32",   // documentation
	"2002::/16",       // 6to4
	"3fff::/20",       // documentation
	"5f00::/16",       // segment routing SIDs
	"fc00::/7",        // unique local
	"fe80::/10",       // link-local
	"fec0::/10",       // deprecated site-local
	"ff00::/8",        // multicast
)

// Globally reachable exceptions inside 2001::/23.
var global6 = prefixes(
	"2001:1::1/128", // port control protocol anycast
	"2001:1::2/128", // traversal using relays around NAT anycast
	"2001:3::/32",   // AMT
	"2001:4:112::/48",
	"2001:20::/28", // ORCHIDv2
	"2001:30::/28", // drone remote ID
)

func prefixes(ss ...string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(ss))
	for _, s := range ss {
		out = append(out, netip.MustParsePrefix(s))
	}
	return out
}
