package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// HeaderLen is the size of an ICMP echo header.
	HeaderLen = 8

	// ipv4HeaderLen is the IP header the kernel prepends on IPv4 raw sockets.
	ipv4HeaderLen = 20
)

type icmpv4Codec struct{}

func (icmpv4Codec) Family() Family { return IPv4 }

func (icmpv4Codec) ICMPOffset() int { return ipv4HeaderLen }

// Build serializes the header and filler with a zero checksum field, then
// stamps the checksum over the whole message into bytes 2-3.
func (icmpv4Codec) Build(id, seq uint16, payloadSize int) ([]byte, error) {
	icmp := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0),
		Id:       id,
		Seq:      seq,
	}
	payload := gopacket.Payload(filler(payloadSize))

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, icmp, payload); err != nil {
		return nil, fmt.Errorf("failed to serialize ICMPv4 echo request: %w", err)
	}

	b := buf.Bytes()
	binary.BigEndian.PutUint16(b[2:4], Checksum(b))
	return b, nil
}

func (icmpv4Codec) IsReply(buf []byte, n int) bool {
	return typeAt(buf, n, ipv4HeaderLen) == uint8(layers.ICMPv4TypeEchoReply)
}

func (icmpv4Codec) IsRequest(buf []byte, n int) bool {
	return typeAt(buf, n, ipv4HeaderLen) == uint8(layers.ICMPv4TypeEchoRequest)
}

// typeAt returns the ICMP type byte at offset, or 0xff when the first n bytes
// of buf cannot hold an ICMP header at that offset.
func typeAt(buf []byte, n int, offset int) uint8 {
	if n > len(buf) || n < offset+HeaderLen {
		return 0xff
	}
	return buf[offset]
}

// filler returns size payload bytes where each byte is its index from the
// start of the packet modulo 256.
func filler(size int) []byte {
	if size <= 0 {
		return nil
	}
	b := make([]byte, size)
	for i := range b {
		b[i] = byte((i + HeaderLen) % 256)
	}
	return b
}
