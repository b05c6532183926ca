package form

import (
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/logger"
)

// Machine owns one wizard's state and exposes one method per action. It is
// not safe for concurrent use; all calls happen on the UI event loop.
type Machine struct {
	state State
}

// NewMachine returns a machine in the initial state.
func NewMachine() *Machine {
	return &Machine{state: InitialState()}
}

// State returns the current state. The returned value must be treated as
// read-only.
func (m *Machine) State() State {
	return m.state
}

// Dispatch applies a and reports whether the state changed. Rejected actions
// are logged and leave the state untouched.
func (m *Machine) Dispatch(a Action) bool {
	next, err := Apply(m.state, a)
	if err != nil {
		logger.Warn("form: rejected %T: %v", a, err)
		return false
	}
	m.state = next
	return true
}

func (m *Machine) SetStep(step Step) bool {
	return m.Dispatch(SetStep{Step: step})
}

func (m *Machine) SetSelectedType(t beacon.ProjectType) bool {
	return m.Dispatch(SetSelectedType{Type: t})
}

// UpdateBaseFields has the shape of an array-harness update callback.
func (m *Machine) UpdateBaseFields(partial beacon.Fields) {
	m.Dispatch(UpdateBaseFields{Fields: partial})
}

// UpdateTypeFields has the shape of an array-harness update callback.
func (m *Machine) UpdateTypeFields(partial beacon.Fields) {
	m.Dispatch(UpdateTypeFields{Fields: partial})
}

func (m *Machine) SetStepValidity(step Step, valid bool) {
	m.Dispatch(SetStepValidity{Step: step, Valid: valid})
}

func (m *Machine) SetSubmitting(submitting bool) {
	m.Dispatch(SetSubmitting{Submitting: submitting})
}

func (m *Machine) Reset() {
	m.Dispatch(Reset{})
}

// LoadPayload resumes a saved payload.
func (m *Machine) LoadPayload(p beacon.Payload) bool {
	return m.Dispatch(LoadPayload{Payload: p})
}
