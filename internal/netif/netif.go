package netif

import (
	"errors"
	"fmt"
	"net/netip"
	"sort"
)

var (
	ErrNoDefaultRoute    = errors.New("no default route")
	ErrInterfaceNotFound = errors.New("interface not found")
	ErrInterfaceDown     = errors.New("interface is down")
	ErrNoStableAddress   = errors.New("no stable privacy ipv6 address")
	ErrUnsupported       = errors.New("interface discovery is only supported on linux")
)

// Address families as used in Route.Family.
const (
	FamilyIPv4 = 4
	FamilyIPv6 = 6
)

// Route is a default route from the main routing table.
type Route struct {
	Family    int
	LinkIndex int
	// Priority is the route metric; lower is preferred.
	Priority uint32
}

type Link struct {
	Index int
	Name  string
	Up    bool
}

type Address struct {
	Addr netip.Addr
	// Global is true for universe-scope addresses.
	Global bool
	// ManageTempAddr is true for addresses flagged mngtmpaddr.
	ManageTempAddr bool
	// Usable is false for tentative or dadfailed addresses.
	Usable bool
	// Deprecated is true once the preferred lifetime has expired.
	Deprecated bool
}

// Table is a read-only view of the system's network configuration.
type Table interface {
	DefaultRoutes() ([]Route, error)
	Links() ([]Link, error)
	Addresses(linkIndex int) ([]Address, error)
}

type Selector struct {
	table Table
}

func New(table Table) *Selector {
	return &Selector{table: table}
}

// DefaultInterface returns the name of the interface carrying the preferred
// IPv4 default route, falling back to the IPv6 default route.
func (s *Selector) DefaultInterface() (string, error) {
	routes, err := s.table.DefaultRoutes()
	if err != nil {
		return "", fmt.Errorf("list routes: %w", err)
	}

	sort.SliceStable(routes, func(i, j int) bool { return routes[i].Priority < routes[j].Priority })

	for _, family := range []int{FamilyIPv4, FamilyIPv6} {
		for _, r := range routes {
			if r.Family != family {
				continue
			}
			link, err := s.linkByIndex(r.LinkIndex)
			if err != nil {
				return "", err
			}
			return link.Name, nil
		}
	}
	return "", ErrNoDefaultRoute
}

// CheckUp verifies that the named interface exists and is administratively
// up.
func (s *Selector) CheckUp(name string) error {
	link, err := s.linkByName(name)
	if err != nil {
		return err
	}
	if !link.Up {
		return fmt.Errorf("%s: %w", name, ErrInterfaceDown)
	}
	return nil
}

// StableAddress returns the first usable global mngtmpaddr IPv6 address of
// the named interface. A deprecated address is returned only when no
// preferred one exists.
func (s *Selector) StableAddress(name string) (netip.Addr, error) {
	link, err := s.linkByName(name)
	if err != nil {
		return netip.Addr{}, err
	}

	addrs, err := s.table.Addresses(link.Index)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("list addresses of %s: %w", name, err)
	}

	var fallback netip.Addr
	for _, a := range addrs {
		if !a.Addr.Is6() || a.Addr.Is4In6() || !a.Global || !a.ManageTempAddr || !a.Usable {
			continue
		}
		if !a.Deprecated {
			return a.Addr, nil
		}
		if !fallback.IsValid() {
			fallback = a.Addr
		}
	}
	if fallback.IsValid() {
		return fallback, nil
	}
	return netip.Addr{}, fmt.Errorf("%s: %w", name, ErrNoStableAddress)
}

func (s *Selector) linkByName(name string) (Link, error) {
	links, err := s.table.Links()
	if err != nil {
		return Link{}, fmt.Errorf("list links: %w", err)
	}
	for _, l := range links {
		if l.Name == name {
			return l, nil
		}
	}
	return Link{}, fmt.Errorf("%s: %w", name, ErrInterfaceNotFound)
}

func (s *Selector) linkByIndex(index int) (Link, error) {
	links, err := s.table.Links()
	if err != nil {
		return Link{}, fmt.Errorf("list links: %w", err)
	}
	for _, l := range links {
		if l.Index == index {
			return l, nil
		}
	}
	return Link{}, fmt.Errorf("link index %d: %w", index, ErrInterfaceNotFound)
}
