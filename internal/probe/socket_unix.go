//go:build linux || darwin || freebsd

package probe

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/tkjaer/rping/pkg/packet"
	"golang.org/x/sys/unix"
)

// rawConn is a blocking raw socket. Receive timeouts are enforced by the
// kernel through SO_RCVTIMEO.
type rawConn struct {
	fd     int
	family packet.Family
}

func listenRaw(f packet.Family) (*rawConn, error) {
	domain, proto := unix.AF_INET, unix.IPPROTO_ICMP
	if f == packet.IPv6 {
		domain, proto = unix.AF_INET6, unix.IPPROTO_ICMPV6
	}

	fd, err := unix.Socket(domain, unix.SOCK_RAW, proto)
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(fd)

	if f == packet.IPv6 {
		if err := setEchoReplyFilter(fd); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("failed to set ICMPv6 filter: %w", err)
		}
	}

	return &rawConn{fd: fd, family: f}, nil
}

func (c *rawConn) SetReadTimeout(d time.Duration) error {
	// A zero timeval blocks forever.
	if d < time.Microsecond {
		d = time.Microsecond
	}
	tv := unix.NsecToTimeval(d.Nanoseconds())
	return unix.SetsockoptTimeval(c.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv)
}

func (c *rawConn) WriteTo(b []byte, dst netip.Addr) error {
	var sa unix.Sockaddr
	switch c.family {
	case packet.IPv4:
		sa = &unix.SockaddrInet4{Addr: dst.Unmap().As4()}
	case packet.IPv6:
		sa = &unix.SockaddrInet6{Addr: dst.As16(), ZoneId: zoneIndex(dst.Zone())}
	}
	return unix.Sendto(c.fd, b, 0, sa)
}

func (c *rawConn) ReadFrom(b []byte) (int, netip.Addr, error) {
	n, from, err := unix.Recvfrom(c.fd, b, 0)
	if err != nil {
		switch err {
		case unix.EAGAIN: // == EWOULDBLOCK on linux, darwin and freebsd
			return 0, netip.Addr{}, errTimeout
		case unix.EINTR:
			return 0, netip.Addr{}, errInterrupted
		}
		return 0, netip.Addr{}, err
	}

	var peer netip.Addr
	switch sa := from.(type) {
	case *unix.SockaddrInet4:
		peer = netip.AddrFrom4(sa.Addr)
	case *unix.SockaddrInet6:
		peer = netip.AddrFrom16(sa.Addr)
	}
	return n, peer, nil
}

func (c *rawConn) Close() error {
	return unix.Close(c.fd)
}

func zoneIndex(zone string) uint32 {
	if zone == "" {
		return 0
	}
	if ifi, err := net.InterfaceByName(zone); err == nil {
		return uint32(ifi.Index)
	}
	return 0
}
