// Package resolver resolves a hostname to the address set that decides
// whether sshbind treats the target as LAN or WAN.
//
// Each name is queried for AAAA records, then A records, then CNAME. The
// first address family with an answer wins. A CNAME is followed within the
// same [Resolver.Resolve] call, and every name tried is remembered for the
// duration of that call so that CNAME loops end instead of spinning.
//
// Failures are not errors here: NXDOMAIN, timeouts and empty answers all
// make Resolve return nil, which callers treat as "not a usable host".
package resolver
