package packet

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Decode parses the first n bytes of a received buffer for diagnostics.
// IPv4 buffers start at the IP header, IPv6 buffers at the ICMPv6 header.
func Decode(f Family, buf []byte, n int) gopacket.Packet {
	if n > len(buf) {
		n = len(buf)
	}
	first := layers.LayerTypeIPv4
	if f == IPv6 {
		first = layers.LayerTypeICMPv6
	}
	return gopacket.NewPacket(buf[:n], first, gopacket.Default)
}

// TypeCode returns the ICMP type/code string of a received buffer, or an
// empty string if it does not decode as ICMP.
func TypeCode(f Family, buf []byte, n int) string {
	p := Decode(f, buf, n)
	if l, ok := p.Layer(layers.LayerTypeICMPv4).(*layers.ICMPv4); ok {
		return l.TypeCode.String()
	}
	if l, ok := p.Layer(layers.LayerTypeICMPv6).(*layers.ICMPv6); ok {
		return l.TypeCode.String()
	}
	return ""
}
