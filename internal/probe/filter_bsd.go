//go:build darwin || freebsd

package probe

import (
	"golang.org/x/sys/unix"
)

const icmpv6EchoReply = 129

// setEchoReplyFilter lets only ICMPv6 Echo Replies reach the socket.
// On BSD a set bit passes the type.
func setEchoReplyFilter(fd int) error {
	var f unix.ICMPv6Filter
	f.Filt[icmpv6EchoReply>>5] |= 1 << (icmpv6EchoReply & 31)
	return unix.SetsockoptICMPv6Filter(fd, unix.IPPROTO_ICMPV6, unix.ICMP6_FILTER, &f)
}
