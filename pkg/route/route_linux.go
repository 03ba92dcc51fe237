//go:build linux

package route

import (
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/jsimonetti/rtnetlink"
	"golang.org/x/sys/unix"
)

var errNoRoute = errors.New("no route returned")

// fetchRIBMessagesForIP asks the kernel for the route to ip with RTM_GETROUTE.
// Variable for mocking in tests.
var fetchRIBMessagesForIP = func(ip netip.Addr) ([]rtnetlink.RouteMessage, error) {
	c, err := rtnetlink.Dial(nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	af := unix.AF_INET
	bits := 32
	if ip.Is6() {
		af = unix.AF_INET6
		bits = 128
	}

	return c.Route.Get(&rtnetlink.RouteMessage{
		Family:    uint8(af),
		DstLength: uint8(bits),
		Attributes: rtnetlink.RouteAttributes{
			Dst: ip.AsSlice(),
		},
	})
}

// routeFromMessages turns the RTM_GETROUTE answer into a Route. The kernel
// resolves the lookup itself, so exactly one message is expected.
func routeFromMessages(ip netip.Addr, msgs []rtnetlink.RouteMessage) (Route, error) {
	switch {
	case len(msgs) == 0:
		return Route{}, fmt.Errorf("%w for %s", errNoRoute, ip)
	case len(msgs) > 1:
		return Route{}, fmt.Errorf("multiple routes found for %s", ip)
	}
	attrs := msgs[0].Attributes

	dst, ok := netip.AddrFromSlice(attrs.Dst)
	if !ok {
		return Route{}, fmt.Errorf("failed to parse destination address: %v", attrs.Dst)
	}
	if dst.Unmap() != ip {
		return Route{}, fmt.Errorf("route destination %s does not match %s", dst, ip)
	}
	src, ok := netip.AddrFromSlice(attrs.Src)
	if !ok {
		return Route{}, fmt.Errorf("failed to parse source address: %v", attrs.Src)
	}
	gw, _ := netip.AddrFromSlice(attrs.Gateway)

	intf, err := net.InterfaceByIndex(int(attrs.OutIface))
	if err != nil {
		return Route{}, fmt.Errorf("failed to get interface by index %d: %w", attrs.OutIface, err)
	}
	if intf.Flags&net.FlagUp == 0 {
		return Route{}, fmt.Errorf("interface %s is down", intf.Name)
	}

	return Route{
		Destination: dst.Unmap(),
		Gateway:     gw.Unmap(),
		Source:      src.Unmap(),
		Interface:   intf,
	}, nil
}

func get(ip netip.Addr) (Route, error) {
	msgs, err := fetchRIBMessagesForIP(ip)
	if err != nil {
		return Route{}, fmt.Errorf("route lookup for %s: %w", ip, err)
	}
	return routeFromMessages(ip, msgs)
}
