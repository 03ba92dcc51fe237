// Package route finds the source address and outgoing interface the kernel
// would pick for a probe destination.
package route

import (
	"net"
	"net/netip"
)

// Route is the kernel's forwarding decision for a single destination.
type Route struct {
	Destination netip.Addr
	Gateway     netip.Addr
	Source      netip.Addr
	Interface   *net.Interface
}

// InterfaceName returns the outgoing interface name, or "" when unknown.
func (r Route) InterfaceName() string {
	if r.Interface == nil {
		return ""
	}
	return r.Interface.Name
}

// Get returns the route the kernel would use to reach ip.
func Get(ip netip.Addr) (Route, error) {
	return get(ip.Unmap())
}
