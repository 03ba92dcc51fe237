package probe

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/tkjaer/rping/internal/shared"
	"github.com/tkjaer/rping/pkg/packet"
	"golang.org/x/net/ipv4"
)

// recvBufferSize fits the largest IP datagram a raw socket can deliver.
const recvBufferSize = 65536

// EngineConfig holds configuration common to all probes of a run
type EngineConfig struct {
	Count       uint
	Timeout     time.Duration
	PayloadSize int
	ID          uint16 // ICMP identifier, defaults to the process ID
}

// Engine owns the raw socket of a run and sends probes one at a time.
type Engine struct {
	target Target
	codec  packet.Codec
	conn   Conn
	config EngineConfig
	buf    []byte
}

// NewEngine opens the raw socket for target's family. A failure to open it
// is returned as a *SocketError and is fatal to the run.
func NewEngine(target Target, cfg EngineConfig) (*Engine, error) {
	codec, err := packet.For(target.Family)
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		cfg.ID = uint16(os.Getpid() & 0xffff)
	}

	conn, err := openConn(target.Family)
	if err != nil {
		return nil, &SocketError{Family: target.Family, Err: err}
	}
	if err := conn.SetReadTimeout(cfg.Timeout); err != nil {
		conn.Close()
		return nil, &SocketError{Family: target.Family, Err: err}
	}
	slog.Debug("Opened raw socket", "family", target.Family, "timeout", cfg.Timeout)

	return &Engine{
		target: target,
		codec:  codec,
		conn:   conn,
		config: cfg,
		buf:    make([]byte, recvBufferSize),
	}, nil
}

// Run sends Count probes sequentially. onResult, if set, is called after
// each probe completes and before the next one starts. Run stops early when
// ctx is cancelled and returns the results gathered so far.
func (e *Engine) Run(ctx context.Context, onResult func(shared.ProbeResult)) []shared.ProbeResult {
	results := make([]shared.ProbeResult, 0, e.config.Count)
	for n := range e.config.Count {
		select {
		case <-ctx.Done():
			slog.Debug("Run cancelled", "completed", len(results))
			return results
		default:
		}

		r := e.Probe(n)
		results = append(results, r)
		if onResult != nil {
			onResult(r)
		}
	}
	return results
}

// Probe sends one echo request and waits up to the configured timeout for
// an echo reply. Failures are reported as dropped results, never as errors.
func (e *Engine) Probe(seq uint) shared.ProbeResult {
	timeout := e.config.Timeout
	result := shared.ProbeResult{Seq: seq, Time: time.Now()}

	pkt, err := e.codec.Build(e.config.ID, uint16(seq), e.config.PayloadSize)
	if err != nil {
		slog.Warn("Failed to build echo request", "probe_num", seq, "error", err)
		result.Dropped = true
		result.Latency = timeout
		return result
	}
	if err := e.conn.SetReadTimeout(timeout); err != nil {
		slog.Warn("Failed to set receive timeout", "probe_num", seq, "error", err)
		result.Dropped = true
		result.Latency = timeout
		return result
	}

	start := time.Now()
	if err := e.conn.WriteTo(pkt, e.target.Addr); err != nil {
		slog.Debug("Failed to send echo request", "probe_num", seq, "error", err)
		result.Dropped = true
		result.Latency = timeout
		return result
	}
	slog.Debug("Sent echo request", "probe_num", seq, "bytes", len(pkt), "destination", e.target.Addr)

	for {
		n, peer, err := e.conn.ReadFrom(e.buf)
		elapsed := time.Since(start)

		// A signal cuts the receive short, and so does our own request
		// looped back by the kernel when the target is local. Both resume
		// waiting for the rest of the timeout.
		retry := errors.Is(err, errInterrupted)
		if err == nil && e.codec.IsRequest(e.buf, n) {
			retry = true
		}
		if retry {
			remaining := timeout - elapsed
			if remaining <= 0 {
				result.Dropped = true
				result.Latency = elapsed
				return result
			}
			if err := e.conn.SetReadTimeout(remaining); err != nil {
				result.Dropped = true
				result.Latency = elapsed
				return result
			}
			continue
		}
		if err != nil {
			if !errors.Is(err, errTimeout) {
				slog.Debug("Receive failed", "probe_num", seq, "error", err)
			}
			result.Dropped = true
			result.Latency = elapsed
			return result
		}

		result.Latency = elapsed
		result.Dropped = !e.codec.IsReply(e.buf, n)
		if n > e.codec.ICMPOffset() {
			result.Bytes = n - e.codec.ICMPOffset()
		}
		if peer.IsValid() {
			result.Peer = peer.String()
		}
		if e.codec.Family() == packet.IPv4 {
			if h, err := ipv4.ParseHeader(e.buf[:n]); err == nil {
				result.TTL = h.TTL
			}
			if !result.Dropped && !packet.VerifyChecksum(e.buf[e.codec.ICMPOffset():n]) {
				slog.Debug("Echo reply has a bad checksum", "probe_num", seq, "peer", result.Peer)
			}
		}
		if result.Dropped {
			slog.Debug("Unexpected reply", "probe_num", seq, "type", packet.TypeCode(e.target.Family, e.buf, n), "peer", result.Peer)
		} else {
			slog.Debug("Packet received", "probe_num", seq, "rtt", elapsed, slog.Any("packet", packet.Decode(e.target.Family, e.buf, n)))
		}
		return result
	}
}

// Target returns the destination the engine probes.
func (e *Engine) Target() Target {
	return e.target
}

// Close releases the raw socket.
func (e *Engine) Close() error {
	return e.conn.Close()
}
