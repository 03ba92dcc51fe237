package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"

	"github.com/tkjaer/rping/pkg/packet"
)

// Target is a resolved destination. Its family is fixed for the whole run.
type Target struct {
	Host   string
	Addr   netip.Addr
	Family packet.Family
}

// ResolutionError reports a host that could not be turned into an address.
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %s: %v", e.Host, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

var errNoRecords = errors.New("no address records found")

// lookupHost performs the forward DNS lookup.
// Variable for mocking in tests.
var lookupHost = func(ctx context.Context, host string) ([]string, error) {
	return net.DefaultResolver.LookupHost(ctx, host)
}

// Resolver turns a host string into a Target, optionally restricted to one
// address family.
type Resolver struct {
	ForceIPv4 bool
	ForceIPv6 bool
}

// Resolve resolves host with no family restriction.
func Resolve(ctx context.Context, host string) (Target, error) {
	return Resolver{}.Resolve(ctx, host)
}

// Resolve parses host as a literal address first and falls back to DNS,
// returning the first record in resolver order that meets the family criteria.
func (r Resolver) Resolve(ctx context.Context, host string) (Target, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		if err := r.check(addr); err != nil {
			return Target{}, &ResolutionError{Host: host, Err: err}
		}
		return newTarget(host, addr), nil
	}

	records, err := lookupHost(ctx, host)
	if err != nil {
		return Target{}, &ResolutionError{Host: host, Err: err}
	}
	slog.Debug("Resolved host", "host", host, "records", records)

	for _, record := range records {
		addr, err := netip.ParseAddr(record)
		if err != nil {
			continue
		}
		addr = addr.Unmap()
		if r.check(addr) == nil {
			return newTarget(host, addr), nil
		}
	}

	if len(records) > 0 && (r.ForceIPv4 || r.ForceIPv6) {
		return Target{}, &ResolutionError{Host: host, Err: fmt.Errorf("no %v address records found", r.forced())}
	}
	return Target{}, &ResolutionError{Host: host, Err: errNoRecords}
}

func (r Resolver) forced() packet.Family {
	if r.ForceIPv6 {
		return packet.IPv6
	}
	return packet.IPv4
}

// check validates addr against the forced family, if any.
func (r Resolver) check(addr netip.Addr) error {
	f := packet.FamilyOf(addr)
	switch {
	case r.ForceIPv4 && f != packet.IPv4:
		return errors.New("IPv4 is forced and destination is not IPv4")
	case r.ForceIPv6 && f != packet.IPv6:
		return errors.New("IPv6 is forced and destination is not IPv6")
	}
	return nil
}

func newTarget(host string, addr netip.Addr) Target {
	if addr.Is4In6() {
		addr = addr.Unmap()
	}
	return Target{
		Host:   host,
		Addr:   addr,
		Family: packet.FamilyOf(addr),
	}
}
