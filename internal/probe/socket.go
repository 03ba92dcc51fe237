package probe

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/tkjaer/rping/pkg/packet"
)

// Conn is a raw ICMP socket for one address family.
type Conn interface {
	// SetReadTimeout bounds every following ReadFrom call.
	SetReadTimeout(d time.Duration) error
	WriteTo(b []byte, dst netip.Addr) error
	ReadFrom(b []byte) (int, netip.Addr, error)
	Close() error
}

// SocketError reports a raw socket that could not be opened or configured.
type SocketError struct {
	Family packet.Family
	Err    error
}

func (e *SocketError) Error() string {
	msg := fmt.Sprintf("failed to open raw %v ICMP socket: %v", e.Family, e.Err)
	if errors.Is(e.Err, os.ErrPermission) {
		msg += " (raw sockets need root or CAP_NET_RAW)"
	}
	return msg
}

func (e *SocketError) Unwrap() error { return e.Err }

var (
	// errTimeout is returned by ReadFrom when the receive timeout expires.
	errTimeout = errors.New("receive timed out")
	// errInterrupted is returned by ReadFrom when a signal ends the receive
	// before the timeout.
	errInterrupted = errors.New("receive interrupted")
)

// openConn opens the raw socket for f.
// Variable for mocking in tests.
var openConn = func(f packet.Family) (Conn, error) {
	c, err := listenRaw(f)
	if err != nil {
		return nil, err
	}
	return c, nil
}
