package capture

import (
	"errors"

	"github.com/Mide6x/wilberforceDemoFE/internal/ports"
)

// ErrNoStrategy reports that no capture strategy can run on this machine.
var ErrNoStrategy = errors.New("no capture strategy available")

// Selector picks the capture strategy for one invocation by probing
// capabilities in preference order.
type Selector struct {
	strategies []ports.CaptureStrategy
}

func NewSelector(strategies ...ports.CaptureStrategy) *Selector {
	return &Selector{strategies: strategies}
}

func (s *Selector) Select() (ports.CaptureStrategy, error) {
	for _, strategy := range s.strategies {
		if strategy.Available() {
			return strategy, nil
		}
	}
	return nil, ErrNoStrategy
}
