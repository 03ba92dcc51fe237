package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/tkjaer/rping/internal/shared"
)

const (
	successMarker = "!"
	dropMarker    = "."
)

// TextOutput prints one marker per probe as it completes, followed by the
// two-line report.
type TextOutput struct {
	mu sync.Mutex
	w  io.Writer

	headerStyle  lipgloss.Style
	successStyle lipgloss.Style
	dropStyle    lipgloss.Style
	markers      int
}

// NewTextOutput writes to w. Colors are only used when w is a terminal.
func NewTextOutput(w io.Writer) *TextOutput {
	r := lipgloss.NewRenderer(w)
	return &TextOutput{
		w:            w,
		headerStyle:  r.NewStyle().Bold(true),
		successStyle: r.NewStyle().Foreground(lipgloss.Color("#34D399")),
		dropStyle:    r.NewStyle().Foreground(lipgloss.Color("#F87171")),
	}
}

func (t *TextOutput) Start(info shared.RunInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, t.headerStyle.Render(headerLine(info)))
}

// headerLine formats e.g. "PING example.com (192.0.2.1) from 192.0.2.10 eth0: 56 data bytes".
func headerLine(info shared.RunInfo) string {
	line := fmt.Sprintf("PING %s (%s)", info.Host, info.Address)
	if info.PTR != "" && info.PTR != info.Host {
		line += " [" + info.PTR + "]"
	}
	if info.Source != "" {
		line += " from " + info.Source
		if info.Interface != "" {
			line += " " + info.Interface
		}
	}
	return fmt.Sprintf("%s: %d data bytes", line, info.PayloadSize)
}

func (t *TextOutput) ProbeComplete(result shared.ProbeResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if result.Dropped {
		fmt.Fprint(t.w, t.dropStyle.Render(dropMarker))
	} else {
		fmt.Fprint(t.w, t.successStyle.Render(successMarker))
	}
	t.markers++
}

func (t *TextOutput) Complete(summary shared.RunSummary) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.markers > 0 {
		fmt.Fprintln(t.w)
	}
	fmt.Fprint(t.w, Report(summary))
}

func (t *TextOutput) Close() error {
	return nil
}

// Report renders the counts line and the latency line of a summary.
func Report(s shared.RunSummary) string {
	return fmt.Sprintf("Total: %d, Succeeded: %d, Failed: %d, %%: %.3f\nMax: %.3f, Min: %.3f, Avg: %.3f\n",
		s.Total, s.Succeeded, s.Failed, s.SucceededPct(),
		s.MaxLatency, s.MinLatency, s.AverageLatency)
}
