// Package netif picks the network interface and source address sshbind binds
// WAN connections to.
//
// The [Selector] works over a [Table], a read-only view of the system's
// routes, links and addresses. On Linux the table is read over rtnetlink.
// On other platforms [NewSystem] returns an error wrapping ErrUnsupported.
//
// The default interface is the one carrying the IPv4 default route, or the
// IPv6 default route when there is no IPv4 one. The stable address of an
// interface is its first global IPv6 address flagged mngtmpaddr, i.e. the
// address the kernel derives privacy (temporary) addresses from.
package netif
