package packet

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

type icmpv6Codec struct{}

func (icmpv6Codec) Family() Family { return IPv6 }

// Raw ICMPv6 sockets deliver the ICMP message without an IP header.
func (icmpv6Codec) ICMPOffset() int { return 0 }

// Build leaves the checksum field zero. The kernel fills it in using the
// IPv6 pseudo-header, which is not visible from a raw socket.
func (icmpv6Codec) Build(id, seq uint16, payloadSize int) ([]byte, error) {
	icmp := &layers.ICMPv6{
		TypeCode: layers.CreateICMPv6TypeCode(layers.ICMPv6TypeEchoRequest, 0),
	}
	echo := &layers.ICMPv6Echo{
		Identifier: id,
		SeqNumber:  seq,
	}
	payload := gopacket.Payload(filler(payloadSize))

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, icmp, echo, payload); err != nil {
		return nil, fmt.Errorf("failed to serialize ICMPv6 echo request: %w", err)
	}
	return buf.Bytes(), nil
}

func (icmpv6Codec) IsReply(buf []byte, n int) bool {
	return typeAt(buf, n, 0) == uint8(layers.ICMPv6TypeEchoReply)
}

func (icmpv6Codec) IsRequest(buf []byte, n int) bool {
	return typeAt(buf, n, 0) == uint8(layers.ICMPv6TypeEchoRequest)
}
