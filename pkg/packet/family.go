// Package packet builds ICMP Echo Requests and recognises Echo Replies for
// IPv4 and IPv6 raw sockets.
package packet

import (
	"fmt"
	"net/netip"
)

// Family is the IP address family a probe run is pinned to.
type Family uint8

const (
	IPv4 Family = 4
	IPv6 Family = 6
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	default:
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
}

// FamilyOf returns the family of addr. IPv4-mapped IPv6 addresses count as IPv4.
func FamilyOf(addr netip.Addr) Family {
	if addr.Unmap().Is4() {
		return IPv4
	}
	return IPv6
}

// Codec is the per-family strategy for building requests and judging what a
// raw socket hands back.
type Codec interface {
	Family() Family
	// Build returns an Echo Request with payloadSize filler bytes.
	Build(id, seq uint16, payloadSize int) ([]byte, error)
	// IsReply reports whether the first n bytes of buf are an Echo Reply.
	IsReply(buf []byte, n int) bool
	// IsRequest reports whether the first n bytes of buf are an Echo Request,
	// as seen when the kernel loops our own probe back to the socket.
	IsRequest(buf []byte, n int) bool
	// ICMPOffset is where the ICMP header starts in a received buffer.
	ICMPOffset() int
}

// For returns the Codec for f.
func For(f Family) (Codec, error) {
	switch f {
	case IPv4:
		return icmpv4Codec{}, nil
	case IPv6:
		return icmpv6Codec{}, nil
	default:
		return nil, fmt.Errorf("unsupported address family: %v", f)
	}
}
