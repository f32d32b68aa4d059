// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package run

import (
	"fmt"

	"go.uber.org/zap"
)

// State is a step of a validation run.
type State int

const (
	Discovering State = iota
	Extracting
	Launching
	Walking
	AwaitingResult
	Reporting
	Annotating
	Closing
	Failed
)

var stateNames = [...]string{
	Discovering:    "Discovering",
	Extracting:     "Extracting",
	Launching:      "Launching",
	Walking:        "Walking",
	AwaitingResult: "AwaitingResult",
	Reporting:      "Reporting",
	Annotating:     "Annotating",
	Closing:        "Closing",
	Failed:         "Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s State) bool {
	return s == Closing
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case Discovering:
		return to == Extracting || to == Failed
	case Extracting:
		return to == Launching || to == Failed
	case Launching:
		return to == Walking || to == Failed
	case Walking:
		return to == AwaitingResult || to == Failed || to == Closing
	case AwaitingResult:
		return to == Reporting || to == Failed || to == Closing
	case Reporting:
		return to == Annotating || to == Closing
	case Annotating:
		return to == Closing
	case Failed:
		return to == Reporting
	default:
		return false
	}
}

// machine tracks the current state of one run. It is not safe for
// concurrent use. Transitions made inside a guarded step happen while the
// run's goroutine is blocked in guard, which waits for the step to return.
type machine struct {
	state  State
	logger *zap.Logger
}

func newMachine(logger *zap.Logger) *machine {
	return &machine{state: Discovering, logger: logger}
}

// to moves the machine to next. A disallowed transition is a programming
// error: it is logged and refused, leaving the state unchanged.
func (m *machine) to(next State) {
	if !isAllowedTransition(m.state, next) {
		m.logger.Error("state transition refused",
			zap.Stringer("from", m.state), zap.Stringer("to", next))
		return
	}
	m.logger.Debug("state transition",
		zap.Stringer("from", m.state), zap.Stringer("to", next))
	m.state = next
}
