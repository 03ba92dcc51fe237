//go:build linux

package route

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/jsimonetti/rtnetlink"
	"golang.org/x/sys/unix"
)

func TestRouteFromMessages(t *testing.T) {
	ipv4 := netip.MustParseAddr("192.0.2.100")
	ipv6 := netip.MustParseAddr("2001:db8::100")

	tests := []struct {
		name    string
		ip      netip.Addr
		msgs    []rtnetlink.RouteMessage
		wantSrc netip.Addr
		wantGw  netip.Addr
		wantErr bool
	}{
		{
			name: "IPv4 via gateway",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{
				{
					Family: unix.AF_INET,
					Attributes: rtnetlink.RouteAttributes{
						Dst:      ipv4.AsSlice(),
						Gateway:  netip.MustParseAddr("192.0.2.1").AsSlice(),
						Src:      netip.MustParseAddr("192.0.2.10").AsSlice(),
						OutIface: 1,
					},
				},
			},
			wantSrc: netip.MustParseAddr("192.0.2.10"),
			wantGw:  netip.MustParseAddr("192.0.2.1"),
		},
		{
			name: "IPv6 on link",
			ip:   ipv6,
			msgs: []rtnetlink.RouteMessage{
				{
					Family: unix.AF_INET6,
					Attributes: rtnetlink.RouteAttributes{
						Dst:      ipv6.AsSlice(),
						Src:      netip.MustParseAddr("2001:db8::10").AsSlice(),
						OutIface: 1,
					},
				},
			},
			wantSrc: netip.MustParseAddr("2001:db8::10"),
		},
		{
			name:    "no messages",
			ip:      ipv4,
			wantErr: true,
		},
		{
			name: "multiple routes",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{
				{Family: unix.AF_INET, Attributes: rtnetlink.RouteAttributes{Dst: ipv4.AsSlice(), Src: ipv4.AsSlice(), OutIface: 1}},
				{Family: unix.AF_INET, Attributes: rtnetlink.RouteAttributes{Dst: ipv4.AsSlice(), Src: ipv4.AsSlice(), OutIface: 1}},
			},
			wantErr: true,
		},
		{
			name: "invalid destination",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{
				{Family: unix.AF_INET, Attributes: rtnetlink.RouteAttributes{Dst: []byte{}, Src: ipv4.AsSlice(), OutIface: 1}},
			},
			wantErr: true,
		},
		{
			name: "destination mismatch",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{
				{Family: unix.AF_INET, Attributes: rtnetlink.RouteAttributes{Dst: netip.MustParseAddr("192.0.2.99").AsSlice(), Src: ipv4.AsSlice(), OutIface: 1}},
			},
			wantErr: true,
		},
		{
			name: "invalid source",
			ip:   ipv4,
			msgs: []rtnetlink.RouteMessage{
				{Family: unix.AF_INET, Attributes: rtnetlink.RouteAttributes{Dst: ipv4.AsSlice(), Src: []byte{}, OutIface: 1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := routeFromMessages(tt.ip, tt.msgs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("routeFromMessages() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if r.Source != tt.wantSrc {
				t.Errorf("Source = %v, want %v", r.Source, tt.wantSrc)
			}
			if r.Gateway != tt.wantGw {
				t.Errorf("Gateway = %v, want %v", r.Gateway, tt.wantGw)
			}
			if r.Destination != tt.ip {
				t.Errorf("Destination = %v, want %v", r.Destination, tt.ip)
			}
			if r.InterfaceName() == "" {
				t.Error("expected interface name for index 1")
			}
		})
	}
}

func TestGetLinux(t *testing.T) {
	ipv4 := netip.MustParseAddr("192.0.2.1")

	tests := []struct {
		name    string
		msgs    []rtnetlink.RouteMessage
		err     error
		wantErr bool
	}{
		{
			name: "successful fetch",
			msgs: []rtnetlink.RouteMessage{
				{
					Family: unix.AF_INET,
					Attributes: rtnetlink.RouteAttributes{
						Dst:      ipv4.AsSlice(),
						Src:      netip.MustParseAddr("192.0.2.10").AsSlice(),
						OutIface: 1,
					},
				},
			},
		},
		{
			name:    "fetch error",
			err:     errors.New("dial failed"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := fetchRIBMessagesForIP
			fetchRIBMessagesForIP = func(ip netip.Addr) ([]rtnetlink.RouteMessage, error) { return tt.msgs, tt.err }
			defer func() { fetchRIBMessagesForIP = orig }()

			_, err := Get(ipv4)
			if (err != nil) != tt.wantErr {
				t.Errorf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("Get() error = %v, want wrapped %v", err, tt.err)
			}
		})
	}
}
