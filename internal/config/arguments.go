package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/tkjaer/rping/internal/version"
)

// maxPayloadSize is the largest ICMP payload that fits an IPv4 datagram.
const maxPayloadSize = 65535 - 20 - 8

type Args struct {
	Host      string
	NumProbes uint
	TimeoutMS uint
	Size      uint
	Plot      bool

	// Address family
	ForceIPv4 bool
	ForceIPv6 bool
	NoResolve bool

	// Output
	Json        bool   // output json to stdout
	JsonFile    string // output json to file while showing the text report
	MetricsFile string // prometheus text exposition written at end of run

	// Logging
	Log      string // log file path, empty means no logging
	LogLevel string // log level: debug, info, warn, error
}

func ParseArgs() (Args, error) {
	var args Args
	var showVersion bool

	flag.Usage = func() {
		println("rping - ICMP echo toolbox")
		println()
		println("Sends a fixed number of ICMP echo requests and reports latency.")
		println()
		println("Usage:")
		println("  rping [OPTIONS] HOST")
		println()
		println("Examples:")
		println("  rping <host>                      # 3 probes, 5s timeout")
		println("  rping -n 10 -p <host>             # 10 probes with a latency plot")
		println("  rping -6 -s 1200 <host>           # IPv6 with a 1200 byte payload")
		println("  rping -J <host>                   # JSON lines to stdout")
		println()
		println("Options:")
		flag.PrintDefaults()
		println()
		println("Raw ICMP sockets need root or CAP_NET_RAW.")
	}

	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.UintVarP(&args.NumProbes, "number", "n", 3, "Number of pings to send")
	flag.UintVarP(&args.TimeoutMS, "timeout", "t", 5000, "Timeout of the pings in ms")
	flag.UintVarP(&args.Size, "size", "s", 56, "Payload size of the pings in bytes")
	flag.BoolVarP(&args.Plot, "plot", "p", false, "Show latency plot")
	flag.BoolVarP(&args.ForceIPv4, "ipv4", "4", false, "Force IPv4")
	flag.BoolVarP(&args.ForceIPv6, "ipv6", "6", false, "Force IPv6")
	flag.BoolVar(&args.NoResolve, "no-resolve", false, "Do not resolve IP addresses to hostnames")
	flag.BoolVarP(&args.Json, "json", "J", false, "Write JSON output to stdout (disables text report)")
	flag.StringVarP(&args.JsonFile, "json-file", "j", "", "Write JSON output to file (keeps text report)")
	flag.StringVar(&args.MetricsFile, "metrics-file", "", "Write Prometheus metrics to file at the end of the run")
	flag.StringVarP(&args.Log, "log", "l", "", "Diagnostic log file (empty = no logging)")
	flag.StringVar(&args.LogLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.Parse()

	if showVersion {
		fmt.Println(version.FullVersion())
		os.Exit(0)
	}

	args.Host = flag.Arg(0)
	if args.Host == "" {
		return args, errors.New("host is required")
	}

	switch {
	case flag.NArg() > 1:
		return args, fmt.Errorf("unexpected argument %q", flag.Arg(1))
	case args.NumProbes < 1:
		return args, errors.New("number of pings must be at least 1")
	case args.TimeoutMS < 1:
		return args, errors.New("timeout must be at least 1 ms")
	case args.Size > maxPayloadSize:
		return args, fmt.Errorf("size must be between 0 and %d", maxPayloadSize)
	case args.ForceIPv4 && args.ForceIPv6:
		return args, errors.New("cannot force both IPv4 and IPv6")
	case args.Json && args.JsonFile != "":
		return args, errors.New("cannot use both --json and --json-file")
	case args.Json && args.Plot:
		return args, errors.New("cannot use both --json and --plot")
	}

	return args, nil
}

// Timeout returns the per-probe timeout.
func (a Args) Timeout() time.Duration {
	return time.Duration(a.TimeoutMS) * time.Millisecond
}
