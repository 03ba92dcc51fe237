//go:build linux

package probe

import (
	"golang.org/x/sys/unix"
)

const icmpv6EchoReply = 129

// setEchoReplyFilter lets only ICMPv6 Echo Replies reach the socket.
// On Linux a set bit blocks the type.
func setEchoReplyFilter(fd int) error {
	var f unix.ICMPv6Filter
	for i := range f.Data {
		f.Data[i] = 0xffffffff
	}
	f.Data[icmpv6EchoReply>>5] &^= 1 << (icmpv6EchoReply & 31)
	return unix.SetsockoptICMPv6Filter(fd, unix.IPPROTO_ICMPV6, unix.ICMPV6_FILTER, &f)
}
