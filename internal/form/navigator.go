package form

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/logger"
)

// DefaultSubmitTimeout bounds a submit or draft-save call.
const DefaultSubmitTimeout = 30 * time.Second

// SubmitFunc hands a payload to an external collaborator.
type SubmitFunc func(ctx context.Context, p beacon.Payload) error

// Collaborators are the external receivers of completed and draft payloads.
// SaveDraft is optional.
type Collaborators struct {
	Submit    SubmitFunc
	SaveDraft SubmitFunc
}

var (
	ErrNoSubmitter  = errors.New("no submit collaborator configured")
	ErrDraftBlocked = errors.New("draft save not available")
)

// Navigator turns machine state into UI affordances and gates forward,
// backward and jump navigation as well as submission.
type Navigator struct {
	machine *Machine
	collab  Collaborators
	timeout time.Duration
	pending *Submission
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithSubmitTimeout overrides DefaultSubmitTimeout. Non-positive values are
// ignored.
func WithSubmitTimeout(d time.Duration) Option {
	return func(n *Navigator) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// NewNavigator returns a navigator driving m.
func NewNavigator(m *Machine, c Collaborators, opts ...Option) *Navigator {
	n := &Navigator{machine: m, collab: c, timeout: DefaultSubmitTimeout}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Machine returns the driven machine.
func (n *Navigator) Machine() *Machine {
	return n.machine
}

// Busy reports whether a submission holds the lock.
func (n *Navigator) Busy() bool {
	return n.machine.State().IsSubmitting
}

// CanAdvance re-evaluates the current step. It does not read the cache.
func (n *Navigator) CanAdvance() bool {
	return IsCurrentStepValid(n.machine.State())
}

// CanGoBack reports whether there is a previous step.
func (n *Navigator) CanGoBack() bool {
	return n.machine.State().CurrentStep > FirstStep
}

// NextStepLabel is the label of the forward button on the current step.
func (n *Navigator) NextStepLabel() string {
	return NextStepLabel(n.machine.State().CurrentStep)
}

// BackStepLabel is the label of the backward button on the current step.
func (n *Navigator) BackStepLabel() string {
	return BackStepLabel(n.machine.State().CurrentStep)
}

// NextStepLabel returns the forward label for step.
func NextStepLabel(step Step) string {
	switch step {
	case StepDetails:
		return "Preview"
	case StepPreview:
		return "Create Beacon"
	}
	return "Next"
}

// BackStepLabel returns the backward label for step.
func BackStepLabel(step Step) string {
	if step <= FirstStep {
		return "Cancel"
	}
	return "Back"
}

// Progress returns the completion percentage of the current step:
// (step-1)/3*100.
func (n *Navigator) Progress() float64 {
	return Progress(n.machine.State().CurrentStep)
}

// Progress returns the completion percentage for step.
func Progress(step Step) float64 {
	if !step.Valid() {
		return 0
	}
	return float64(step-FirstStep) / float64(LastStep-FirstStep) * 100
}

// Refresh recomputes the advisory validity cache for every step.
func (n *Navigator) Refresh() {
	s := n.machine.State()
	for _, step := range Steps() {
		if valid := IsStepValid(step, s); s.StepValidation[step] != valid {
			n.machine.SetStepValidity(step, valid)
		}
	}
}

// GoToStep jumps to target when every earlier step validates. Rejected jumps
// are silent no-ops.
func (n *Navigator) GoToStep(target Step) bool {
	s := n.machine.State()
	if s.IsSubmitting || !target.Valid() {
		return false
	}
	for step := FirstStep; step < target; step++ {
		if !IsStepValid(step, s) {
			return false
		}
	}
	return n.machine.SetStep(target)
}

// HandleBack moves one step back unless on the first step or submitting.
func (n *Navigator) HandleBack() bool {
	s := n.machine.State()
	if s.IsSubmitting || !n.CanGoBack() {
		return false
	}
	return n.machine.SetStep(s.CurrentStep - 1)
}

// Advance is the synchronous half of HandleNext. Before the last step it moves
// forward and returns (nil, true). On the last step it takes the submission
// lock and returns the pending submission, which the caller runs and then
// hands to Complete. It returns (nil, false) when nothing happens.
func (n *Navigator) Advance() (*Submission, bool) {
	s := n.machine.State()
	if s.IsSubmitting || !n.CanAdvance() {
		return nil, false
	}
	if s.CurrentStep < LastStep {
		return nil, n.machine.SetStep(s.CurrentStep + 1)
	}
	if n.collab.Submit == nil {
		logger.Warn("form: %v", ErrNoSubmitter)
		return nil, false
	}
	return n.begin(n.collab.Submit, false), true
}

// CanSaveDraft reports whether SaveDraft would start a draft save.
func (n *Navigator) CanSaveDraft() bool {
	s := n.machine.State()
	return n.collab.SaveDraft != nil && s.IsDirty && s.CurrentStep > FirstStep && !s.IsSubmitting
}

// BeginDraft takes the lock and returns a pending draft save, or nil when a
// draft cannot be saved right now.
func (n *Navigator) BeginDraft() *Submission {
	if !n.CanSaveDraft() {
		return nil
	}
	return n.begin(n.collab.SaveDraft, true)
}

func (n *Navigator) begin(fn SubmitFunc, draft bool) *Submission {
	s := n.machine.State()
	p := s.FormData.Payload()
	if draft {
		p.Status = beacon.StatusDraft
	}
	sub := &Submission{Payload: p, Draft: draft, fn: fn, timeout: n.timeout}
	n.machine.SetSubmitting(true)
	n.pending = sub
	return sub
}

// Complete finishes sub with the result of its Run. The lock is always
// released. A successful submit resets the machine; a failure or any draft
// save leaves the state untouched. The error is returned for display.
func (n *Navigator) Complete(sub *Submission, err error) error {
	if sub == nil || sub != n.pending {
		return err
	}
	n.pending = nil
	n.machine.SetSubmitting(false)

	if err != nil {
		logger.Error("form: %s failed: %v", sub.kind(), err)
		return err
	}
	logger.Info("form: %s of %q succeeded", sub.kind(), sub.Payload.Title)
	if !sub.Draft {
		n.machine.Reset()
	}
	return nil
}

// HandleNext advances or, on the last step, submits and waits for the
// collaborator.
func (n *Navigator) HandleNext(ctx context.Context) error {
	sub, _ := n.Advance()
	if sub == nil {
		return nil
	}
	return n.Complete(sub, sub.Run(ctx))
}

// SaveDraft saves a draft and waits for the collaborator.
func (n *Navigator) SaveDraft(ctx context.Context) error {
	sub := n.BeginDraft()
	if sub == nil {
		return ErrDraftBlocked
	}
	return n.Complete(sub, sub.Run(ctx))
}

// Submission is a payload on its way to a collaborator. Run is safe to call
// off the UI loop; it never touches the machine.
type Submission struct {
	Payload beacon.Payload
	Draft   bool

	fn      SubmitFunc
	timeout time.Duration
}

func (s *Submission) kind() string {
	if s.Draft {
		return "draft save"
	}
	return "submit"
}

// Run calls the collaborator under the submission timeout. It returns when
// the collaborator does or when the deadline passes, whichever is first.
func (s *Submission) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%s panicked: %v", s.kind(), r)
			}
		}()
		done <- s.fn(ctx, s.Payload)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", s.kind(), ctx.Err())
	}
}
