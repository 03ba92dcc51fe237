//go:build !linux && !darwin && !freebsd

package probe

import (
	"errors"
	"runtime"

	"github.com/tkjaer/rping/pkg/packet"
)

var errUnsupported = errors.New("raw ICMP sockets are not supported on " + runtime.GOOS)

func listenRaw(f packet.Family) (Conn, error) {
	return nil, errUnsupported
}
