package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tkjaer/rping/internal/config"
	"github.com/tkjaer/rping/internal/output"
	"github.com/tkjaer/rping/internal/probe"
	"github.com/tkjaer/rping/internal/shared"
	"github.com/tkjaer/rping/pkg/ptr"
	"github.com/tkjaer/rping/pkg/route"
)

func main() {
	os.Exit(run())
}

func run() int {
	args, err := config.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Setup logging
	logFile, err := config.SetupLogging(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Ctrl+C stops after the probe in flight; finished probes are still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := probe.Resolver{ForceIPv4: args.ForceIPv4, ForceIPv6: args.ForceIPv6}
	target, err := resolver.Resolve(ctx, args.Host)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	slog.Debug("Starting rping",
		"host", target.Host,
		"address", target.Addr,
		"family", target.Family,
		"count", args.NumProbes,
		"timeout", args.Timeout(),
		"size", args.Size,
	)

	engine, err := probe.NewEngine(target, probe.EngineConfig{
		Count:       args.NumProbes,
		Timeout:     args.Timeout(),
		PayloadSize: int(args.Size),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer engine.Close()

	var ptrs *ptr.PtrManager
	if !args.NoResolve {
		ptrs = ptr.NewPtrManager()
	}

	om, err := setupOutputs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := om.Close(); err != nil {
			slog.Warn("Failed to close outputs", "error", err)
		}
	}()

	om.Start(runInfo(args, engine.Target(), ptrs))

	results := engine.Run(ctx, func(r shared.ProbeResult) {
		if ptrs != nil && r.Peer != "" {
			r.PeerPTR, _ = ptrs.Lookup(r.Peer)
		}
		om.ProbeComplete(r)
	})

	summary, err := shared.Aggregate(results)
	if errors.Is(err, shared.ErrNoResults) {
		fmt.Fprintln(os.Stderr, "Error: interrupted before any probe completed")
		return 1
	}
	om.Complete(summary)

	slog.Debug("rping completed", "total", summary.Total, "failed", summary.Failed)
	return 0
}

func setupOutputs(args config.Args) (*output.OutputManager, error) {
	om := &output.OutputManager{}

	switch {
	case args.Json:
		o, err := output.NewJSONOutput("")
		if err != nil {
			return nil, err
		}
		om.Register(o)
	default:
		om.Register(output.NewTextOutput(os.Stdout))
		if args.JsonFile != "" {
			o, err := output.NewJSONOutput(args.JsonFile)
			if err != nil {
				return nil, fmt.Errorf("failed to create JSON output: %w", err)
			}
			om.Register(o)
		}
		if args.Plot {
			om.Register(output.NewPlotOutput(os.Stdout))
		}
	}

	if args.MetricsFile != "" {
		om.Register(output.NewMetricsOutput(args.MetricsFile))
	}
	return om, nil
}

// runInfo describes the run for the outputs. Route and PTR lookups are best
// effort: a failure only leaves the field empty.
func runInfo(args config.Args, target probe.Target, ptrs *ptr.PtrManager) shared.RunInfo {
	info := shared.RunInfo{
		Host:        target.Host,
		Address:     target.Addr.String(),
		Family:      target.Family.String(),
		PayloadSize: args.Size,
		Count:       args.NumProbes,
		Timeout:     args.Timeout(),
	}

	if r, err := route.Get(target.Addr); err != nil {
		slog.Debug("Route lookup failed", "address", target.Addr, "error", err)
	} else {
		if r.Source.IsValid() {
			info.Source = r.Source.String()
		}
		info.Interface = r.InterfaceName()
	}

	if ptrs != nil {
		info.PTR, _ = ptrs.Lookup(info.Address)
	}
	return info
}
