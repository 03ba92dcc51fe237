//go:build !linux

package route

import (
	"fmt"
	"net"
	"net/netip"
)

// get lets the kernel choose a source by connecting a UDP socket, which sends
// nothing, then finds the interface that owns that source.
func get(ip netip.Addr) (Route, error) {
	c, err := net.DialUDP("udp", nil, net.UDPAddrFromAddrPort(netip.AddrPortFrom(ip, 9)))
	if err != nil {
		return Route{}, fmt.Errorf("route lookup for %s: %w", ip, err)
	}
	defer c.Close()

	src := c.LocalAddr().(*net.UDPAddr).AddrPort().Addr().Unmap()
	r := Route{Destination: ip, Source: src}

	ifaces, err := net.Interfaces()
	if err != nil {
		return r, nil
	}
	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if n, ok := a.(*net.IPNet); ok {
				if addr, ok := netip.AddrFromSlice(n.IP); ok && addr.Unmap() == src {
					r.Interface = &ifaces[i]
					return r, nil
				}
			}
		}
	}
	return r, nil
}
