// Package ipclass decides whether a literal IP address is on the local
// network or globally routable.
//
// [Classify] is a pure function over the IANA IPv4 and IPv6 special-purpose
// address registries. Anything that is not globally reachable (private,
// loopback, link-local, multicast, documentation, reserved, ...) is [LAN].
// Strings that do not parse as an address are [None], which callers use to
// tell a literal IP apart from a hostname that still needs resolving.
package ipclass
