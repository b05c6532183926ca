// Package form is the beacon creation engine: a four-step state machine with a
// total reducer, the per-step validation dispatcher, the navigation controller
// that gates transitions and submission, and the generic array-field harness
// shared by the six project-type field sets.
package form

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/mark3labs/beacon/internal/beacon"
)

// Step is a wizard step, numbered from 1.
type Step int

const (
	StepType    Step = iota + 1 // choose the project type
	StepBase                    // common fields
	StepDetails                 // type-specific fields
	StepPreview                 // review and submit
)

// FirstStep and LastStep bound the wizard.
const (
	FirstStep = StepType
	LastStep  = StepPreview
)

// Steps returns every step in order.
func Steps() []Step {
	return []Step{StepType, StepBase, StepDetails, StepPreview}
}

// Valid reports whether s is one of the four steps.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Title returns the short name shown in the step indicator.
func (s Step) Title() string {
	switch s {
	case StepType:
		return "Type"
	case StepBase:
		return "Basics"
	case StepDetails:
		return "Details"
	case StepPreview:
		return "Preview"
	}
	return fmt.Sprintf("Step %d", int(s))
}

// FormData accumulates everything entered so far. Type-specific data is kept
// per project type; only the slot of the selected type reaches the payload.
type FormData struct {
	Base        beacon.BaseFields
	ProjectType beacon.ProjectType
	Slots       map[beacon.ProjectType]beacon.FieldSet
}

// TypeSpecific returns the field set of the selected project type, or nil.
func (d FormData) TypeSpecific() beacon.FieldSet {
	if d.ProjectType == "" {
		return nil
	}
	return d.Slots[d.ProjectType]
}

// Payload assembles the complete payload from the base fields and the slot of
// the selected project type.
func (d FormData) Payload() beacon.Payload {
	return beacon.Payload{
		BaseFields:       d.Base,
		ProjectType:      d.ProjectType,
		TypeSpecificData: d.TypeSpecific(),
	}
}

func (d FormData) clone() FormData {
	out := FormData{
		Base:        d.Base,
		ProjectType: d.ProjectType,
		Slots:       make(map[beacon.ProjectType]beacon.FieldSet, len(d.Slots)),
	}
	out.Base.Tags = slices.Clone(d.Base.Tags)
	for t, fs := range d.Slots {
		out.Slots[t] = cloneFieldSet(fs)
	}
	return out
}

func cloneFieldSet(fs beacon.FieldSet) beacon.FieldSet {
	if fs == nil {
		return nil
	}
	c, err := beacon.MergeFieldSet(fs, nil)
	if err != nil {
		return fs
	}
	return c
}

// State is the wizard state. A State is a value: the reducer never modifies
// the maps of the state it is given.
type State struct {
	CurrentStep  Step
	SelectedType beacon.ProjectType
	FormData     FormData
	// StepValidation is an advisory cache of the last computed validity per
	// step. Gating always re-runs the dispatcher.
	StepValidation map[Step]bool
	IsDirty        bool
	IsSubmitting   bool
}

// InitialState returns the state a new wizard starts in: step 1, no type,
// default base fields, every step invalid, clean and not submitting.
func InitialState() State {
	validation := make(map[Step]bool, len(Steps()))
	for _, s := range Steps() {
		validation[s] = false
	}
	return State{
		CurrentStep:    FirstStep,
		FormData:       FormData{Base: beacon.DefaultBaseFields(), Slots: map[beacon.ProjectType]beacon.FieldSet{}},
		StepValidation: validation,
	}
}

func (s State) clone() State {
	out := s
	out.FormData = s.FormData.clone()
	out.StepValidation = maps.Clone(s.StepValidation)
	if out.StepValidation == nil {
		out.StepValidation = map[Step]bool{}
	}
	return out
}

// Action is a state transition request. The set of actions is closed.
type Action interface {
	action()
}

// SetStep moves to Step without gating. Navigation gating lives in Navigator.
type SetStep struct{ Step Step }

// SetSelectedType selects the project type and ensures its slot exists.
// Previously entered data of other types is kept.
type SetSelectedType struct{ Type beacon.ProjectType }

// UpdateBaseFields shallow-merges Fields into the base fields.
type UpdateBaseFields struct{ Fields beacon.Fields }

// UpdateTypeFields shallow-merges Fields into the slot of the selected type.
type UpdateTypeFields struct{ Fields beacon.Fields }

// SetStepValidity records the advisory validity of Step.
type SetStepValidity struct {
	Step  Step
	Valid bool
}

// SetSubmitting takes or releases the submission lock.
type SetSubmitting struct{ Submitting bool }

// Reset returns to the initial state.
type Reset struct{}

// LoadPayload restores a saved payload, typically a draft being resumed. The
// wizard stays on step 1 and is marked dirty.
type LoadPayload struct{ Payload beacon.Payload }

func (SetStep) action()          {}
func (SetSelectedType) action()  {}
func (UpdateBaseFields) action() {}
func (UpdateTypeFields) action() {}
func (SetStepValidity) action()  {}
func (SetSubmitting) action()    {}
func (Reset) action()            {}
func (LoadPayload) action()      {}

var (
	ErrInvalidStep    = errors.New("invalid step")
	ErrNoTypeSelected = errors.New("no project type selected")
	ErrUnknownAction  = errors.New("unknown action")
)

// Reduce applies a to s and returns the new state. It is total: rejected or
// unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	next, err := Apply(s, a)
	if err != nil {
		return s
	}
	return next
}

// Apply is Reduce with the reason for a rejected action. On error the
// returned state is s. The returned state never shares maps or slices with s.
func Apply(s State, a Action) (next State, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = s, fmt.Errorf("action %T panicked: %v", a, r)
		}
	}()

	switch a := a.(type) {
	case SetStep:
		if !a.Step.Valid() {
			return s, fmt.Errorf("%w: %d", ErrInvalidStep, a.Step)
		}
		next = s.clone()
		next.CurrentStep = a.Step
		return next, nil

	case SetSelectedType:
		if !a.Type.Valid() {
			return s, fmt.Errorf("%w: %q", beacon.ErrUnknownProjectType, a.Type)
		}
		next = s.clone()
		next.SelectedType = a.Type
		next.FormData.ProjectType = a.Type
		if _, ok := next.FormData.Slots[a.Type]; !ok {
			next.FormData.Slots[a.Type] = beacon.EmptyFieldSet(a.Type)
		}
		next.IsDirty = true
		return next, nil

	case UpdateBaseFields:
		base, err := beacon.Merge(s.FormData.Base, a.Fields)
		if err != nil {
			return s, fmt.Errorf("updating base fields: %w", err)
		}
		next = s.clone()
		next.FormData.Base = base
		next.IsDirty = true
		return next, nil

	case UpdateTypeFields:
		if !s.SelectedType.Valid() {
			return s, ErrNoTypeSelected
		}
		cur := s.FormData.Slots[s.SelectedType]
		if cur == nil {
			cur = beacon.EmptyFieldSet(s.SelectedType)
		}
		fs, err := beacon.MergeFieldSet(cur, a.Fields)
		if err != nil {
			return s, fmt.Errorf("updating %s fields: %w", s.SelectedType, err)
		}
		next = s.clone()
		next.FormData.Slots[s.SelectedType] = fs
		next.IsDirty = true
		return next, nil

	case SetStepValidity:
		if !a.Step.Valid() {
			return s, fmt.Errorf("%w: %d", ErrInvalidStep, a.Step)
		}
		next = s.clone()
		next.StepValidation[a.Step] = a.Valid
		return next, nil

	case SetSubmitting:
		next = s.clone()
		next.IsSubmitting = a.Submitting
		return next, nil

	case Reset:
		return InitialState(), nil

	case LoadPayload:
		p := a.Payload
		if !p.ProjectType.Valid() {
			return s, fmt.Errorf("%w: %q", beacon.ErrUnknownProjectType, p.ProjectType)
		}
		fs := p.TypeSpecificData
		if fs == nil {
			fs = beacon.EmptyFieldSet(p.ProjectType)
		}
		if fs.ProjectType() != p.ProjectType {
			return s, fmt.Errorf("payload holds %s fields for a %s beacon", fs.ProjectType(), p.ProjectType)
		}
		next = s.clone()
		next.CurrentStep = FirstStep
		next.SelectedType = p.ProjectType
		next.FormData.Base = p.BaseFields
		next.FormData.Base.Tags = slices.Clone(p.Tags)
		next.FormData.ProjectType = p.ProjectType
		next.FormData.Slots[p.ProjectType] = cloneFieldSet(fs)
		next.IsDirty = true
		return next, nil
	}

	return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
}
