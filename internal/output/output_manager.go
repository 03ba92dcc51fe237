package output

import (
	"errors"

	"github.com/tkjaer/rping/internal/shared"
)

// Output interface for different output types
type Output interface {
	Start(info shared.RunInfo)
	ProbeComplete(result shared.ProbeResult)
	Complete(summary shared.RunSummary)
	Close() error
}

// OutputManager manages multiple outputs
type OutputManager struct {
	outputs []Output
}

func (om *OutputManager) Register(o Output) {
	om.outputs = append(om.outputs, o)
}

func (om *OutputManager) Start(info shared.RunInfo) {
	for _, o := range om.outputs {
		o.Start(info)
	}
}

func (om *OutputManager) ProbeComplete(result shared.ProbeResult) {
	for _, o := range om.outputs {
		o.ProbeComplete(result)
	}
}

func (om *OutputManager) Complete(summary shared.RunSummary) {
	for _, o := range om.outputs {
		o.Complete(summary)
	}
}

// Close closes every output and returns their errors joined.
func (om *OutputManager) Close() error {
	var errs []error
	for _, o := range om.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
