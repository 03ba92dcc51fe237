package output

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/tkjaer/rping/internal/shared"
	"golang.org/x/term"
)

const (
	defaultPlotWidth = 80
	plotHeight       = 10
	// room for the y axis labels asciigraph puts left of the chart
	plotAxisWidth = 12
)

// PlotOutput renders latency against probe sequence as a line chart once
// the run completes.
type PlotOutput struct {
	mu        sync.Mutex
	w         io.Writer
	width     func() int
	style     lipgloss.Style
	latencies []float64
}

// NewPlotOutput sizes the chart to the terminal behind w when there is one.
func NewPlotOutput(w io.Writer) *PlotOutput {
	return &PlotOutput{
		w:     w,
		width: func() int { return terminalWidth(w) },
		style: lipgloss.NewRenderer(w).NewStyle().Foreground(lipgloss.Color("#60A5FA")),
	}
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultPlotWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultPlotWidth
	}
	return width
}

func (p *PlotOutput) Start(info shared.RunInfo) {}

func (p *PlotOutput) ProbeComplete(result shared.ProbeResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latencies = append(p.latencies, result.LatencyMS())
}

func (p *PlotOutput) Complete(summary shared.RunSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.latencies) == 0 {
		return
	}
	fmt.Fprintln(p.w, p.style.Render(renderPlot(p.latencies, p.width())))
}

func (p *PlotOutput) Close() error {
	return nil
}

func renderPlot(latencies []float64, width int) string {
	data := latencies
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	plotWidth := width - plotAxisWidth
	if plotWidth < len(data) {
		plotWidth = len(data)
	}
	// A flat series has no value range and asciigraph would draw a single
	// row, so the axis always starts at zero and spans at least 1 ms.
	upper := slices.Max(data)
	if upper <= 0 {
		upper = 1
	}
	return asciigraph.Plot(data,
		asciigraph.Width(plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(upper),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("latency (ms) over %d probes", len(latencies))),
	)
}
