package ipclass

import (
	"net/netip"
)

// Class is the routability of an address.
type Class int

const (
	// None means the input was not a valid IP literal (or, for callers
	// further up, that no usable target was found).
	None Class = iota
	// LAN means the address is not globally routable.
	LAN
	// WAN means the address is globally routable on the public Internet.
	WAN
)

func (c Class) String() string {
	switch c {
	case LAN:
		return "lan"
	case WAN:
		return "wan"
	default:
		return "none"
	}
}

// Classify parses address as an IPv4 or IPv6 literal (an IPv6 zone is
// allowed) and reports whether it is globally routable.
func Classify(address string) Class {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return None
	}
	return ClassifyAddr(addr)
}

// ClassifyAddr is Classify for an already parsed address. The zero Addr is
// None.
func ClassifyAddr(addr netip.Addr) Class {
	if !addr.IsValid() {
		return None
	}
	if IsGlobal(addr) {
		return WAN
	}
	return LAN
}

// IsGlobal reports whether addr is globally reachable. IPv4-mapped IPv6
// addresses are judged by their IPv4 address.
func IsGlobal(addr netip.Addr) bool {
	addr = addr.WithZone("").Unmap()

	if addr.IsUnspecified() || addr.IsLoopback() || addr.IsMulticast() ||
		addr.IsLinkLocalUnicast() || addr.IsPrivate() {
		return false
	}

	table, exceptions := nonGlobal6, global6
	if addr.Is4() {
		table, exceptions = nonGlobal4, global4
	}

	for _, p := range exceptions {
		if p.Contains(addr) {
			return true
		}
	}
	for _, p := range table {
		if p.Contains(addr) {
			return false
		}
	}
	return true
}
