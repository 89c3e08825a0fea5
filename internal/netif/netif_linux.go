//go:build linux

package netif

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/jsimonetti/rtnetlink/v2"
	"golang.org/x/sys/unix"
)

// NewSystem opens an rtnetlink connection and returns a Selector over it,
// together with a function that closes the connection.
func NewSystem() (*Selector, func() error, error) {
	conn, err := rtnetlink.Dial(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rtnetlink: %w", err)
	}
	return New(&netlinkTable{conn: conn}), conn.Close, nil
}

type netlinkTable struct {
	conn *rtnetlink.Conn
}

func (t *netlinkTable) DefaultRoutes() ([]Route, error) {
	msgs, err := t.conn.Route.List()
	if err != nil {
		return nil, err
	}
	return defaultRoutes(msgs), nil
}

func (t *netlinkTable) Links() ([]Link, error) {
	msgs, err := t.conn.Link.List()
	if err != nil {
		return nil, err
	}
	return links(msgs), nil
}

func (t *netlinkTable) Addresses(linkIndex int) ([]Address, error) {
	msgs, err := t.conn.Address.List()
	if err != nil {
		return nil, err
	}
	return addresses(msgs, linkIndex), nil
}

func defaultRoutes(msgs []rtnetlink.RouteMessage) []Route {
	var out []Route
	for _, m := range msgs {
		if m.DstLength != 0 || m.Type != unix.RTN_UNICAST || m.Attributes.OutIface == 0 {
			continue
		}
		table := uint32(m.Table)
		if m.Attributes.Table != 0 {
			table = m.Attributes.Table
		}
		if table != unix.RT_TABLE_MAIN {
			continue
		}

		var family int
		switch m.Family {
		case unix.AF_INET:
			family = FamilyIPv4
		case unix.AF_INET6:
			family = FamilyIPv6
		default:
			continue
		}

		out = append(out, Route{
			Family:    family,
			LinkIndex: int(m.Attributes.OutIface),
			Priority:  m.Attributes.Priority,
		})
	}
	return out
}

func links(msgs []rtnetlink.LinkMessage) []Link {
	out := make([]Link, 0, len(msgs))
	for _, m := range msgs {
		if m.Attributes == nil {
			continue
		}
		out = append(out, Link{
			Index: int(m.Index),
			Name:  m.Attributes.Name,
			Up:    m.Flags&unix.IFF_UP != 0,
		})
	}
	return out
}

func addresses(msgs []rtnetlink.AddressMessage, linkIndex int) []Address {
	var out []Address
	for _, m := range msgs {
		if int(m.Index) != linkIndex || m.Attributes == nil {
			continue
		}

		ip := m.Attributes.Address
		if ip == nil {
			ip = m.Attributes.Local
		}
		addr, ok := toAddr(ip)
		if !ok {
			continue
		}

		// IFA_FLAGS supersedes the 8-bit ifa_flags and is the only place
		// IFA_F_MANAGETEMPADDR can appear.
		flags := m.Attributes.Flags
		if flags == 0 {
			flags = uint32(m.Flags)
		}

		out = append(out, Address{
			Addr:           addr,
			Global:         m.Scope == unix.RT_SCOPE_UNIVERSE,
			ManageTempAddr: flags&unix.IFA_F_MANAGETEMPADDR != 0,
			Usable:         flags&(unix.IFA_F_TENTATIVE|unix.IFA_F_DADFAILED) == 0,
			Deprecated:     flags&unix.IFA_F_DEPRECATED != 0,
		})
	}
	return out
}

func toAddr(ip net.IP) (netip.Addr, bool) {
	if ip4 := ip.To4(); ip4 != nil {
		ip = ip4
	}
	return netip.AddrFromSlice(ip)
}
