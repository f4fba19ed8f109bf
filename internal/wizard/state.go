package wizard

import (
	"fmt"

	"go.uber.org/zap"
)

// State tracks how far one creation attempt has progressed through the
// multi-page flow. The value an attempt ends on tells the operator which
// page broke.
type State string

const (
	StateStart            State = "START"
	StateTypeSelected     State = "TYPE_SELECTED"
	StateDetailsFilled    State = "DETAILS_FILLED"
	StateDetailsSubmitted State = "DETAILS_SUBMITTED"
	StateCreated          State = "CREATED"
	StateOutlineFilled    State = "OUTLINE_FILLED"
	StateRubricApplied    State = "RUBRIC_APPLIED"
	StateListed           State = "LISTED"
	StateAborted          State = "ABORTED"
)

// IsTerminal reports whether the state ends an attempt.
func IsTerminal(s State) bool {
	return s == StateListed || s == StateAborted
}

// isAllowedTransition enumerates the legal edges. The flow is linear and
// any non-terminal state may abort.
func isAllowedTransition(from, to State) bool {
	if to == StateAborted {
		return !IsTerminal(from)
	}
	switch from {
	case StateStart:
		return to == StateTypeSelected
	case StateTypeSelected:
		return to == StateDetailsFilled
	case StateDetailsFilled:
		return to == StateDetailsSubmitted
	case StateDetailsSubmitted:
		return to == StateCreated
	case StateCreated:
		return to == StateOutlineFilled
	case StateOutlineFilled:
		return to == StateRubricApplied
	case StateRubricApplied:
		return to == StateListed
	default:
		return false
	}
}

// machine walks one attempt through the flow and rejects skipped stages.
type machine struct {
	state State
	log   *zap.Logger
}

func newMachine(log *zap.Logger) *machine {
	return &machine{state: StateStart, log: log}
}

func (m *machine) current() State {
	return m.state
}

// advance moves to the next stage, failing on an edge the flow does not
// allow.
func (m *machine) advance(to State) error {
	if !isAllowedTransition(m.state, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.state, to)
	}
	m.log.Debug("attempt advanced",
		zap.String("from", string(m.state)),
		zap.String("to", string(to)))
	m.state = to
	return nil
}

// abort moves a non-terminal attempt to ABORTED. Aborting a finished
// attempt is a no-op so cleanup paths can call it unconditionally.
func (m *machine) abort() {
	if IsTerminal(m.state) {
		return
	}
	m.log.Debug("attempt aborted", zap.String("from", string(m.state)))
	m.state = StateAborted
}
