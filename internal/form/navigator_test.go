package form

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabels(t *testing.T) {
	tests := []struct {
		step       Step
		next, back string
	}{
		{StepType, "Next", "Cancel"},
		{StepBase, "Next", "Back"},
		{StepDetails, "Preview", "Back"},
		{StepPreview, "Create Beacon", "Back"},
	}
	for _, tt := range tests {
		t.Run(tt.step.Title(), func(t *testing.T) {
			n := NewNavigator(filledMachine(t, tt.step), Collaborators{})
			assert.Equal(t, tt.next, n.NextStepLabel())
			assert.Equal(t, tt.back, n.BackStepLabel())
		})
	}
}

func TestProgress(t *testing.T) {
	assert.InDelta(t, 0, Progress(StepType), 0.001)
	assert.InDelta(t, 33.33, Progress(StepBase), 0.01)
	assert.InDelta(t, 66.67, Progress(StepDetails), 0.01)
	assert.InDelta(t, 100, Progress(StepPreview), 0.001)
	assert.Zero(t, Progress(0))

	n := NewNavigator(filledMachine(t, StepDetails), Collaborators{})
	assert.InDelta(t, 66.67, n.Progress(), 0.01)
}

func TestHandleNext_GatedByValidation(t *testing.T) {
	n := NewNavigator(NewMachine(), Collaborators{})
	assert.False(t, n.CanAdvance())
	require.NoError(t, n.HandleNext(context.Background()))
	assert.Equal(t, StepType, n.Machine().State().CurrentStep)

	n.Machine().SetSelectedType(beacon.TypeResearch)
	assert.True(t, n.CanAdvance())
	require.NoError(t, n.HandleNext(context.Background()))
	assert.Equal(t, StepBase, n.Machine().State().CurrentStep)
}

func TestHandleBack(t *testing.T) {
	n := NewNavigator(NewMachine(), Collaborators{})
	assert.False(t, n.CanGoBack())
	assert.False(t, n.HandleBack())

	n.Machine().SetStep(StepDetails)
	assert.True(t, n.HandleBack())
	assert.Equal(t, StepBase, n.Machine().State().CurrentStep)
}

func TestSubmitLock(t *testing.T) {
	var calls atomic.Int32
	submit := func(context.Context, beacon.Payload) error {
		calls.Add(1)
		return nil
	}

	for _, step := range Steps() {
		t.Run(step.Title(), func(t *testing.T) {
			m := filledMachine(t, step)
			m.SetSubmitting(true)
			for _, s := range Steps() {
				m.SetStepValidity(s, true)
			}
			before := m.State()
			n := NewNavigator(m, Collaborators{Submit: submit, SaveDraft: submit})

			require.NoError(t, n.HandleNext(context.Background()))
			assert.False(t, n.HandleBack())
			assert.False(t, n.GoToStep(StepType))
			assert.ErrorIs(t, n.SaveDraft(context.Background()), ErrDraftBlocked)
			sub, moved := n.Advance()
			assert.Nil(t, sub)
			assert.False(t, moved)

			assert.Empty(t, cmp.Diff(before, m.State()))
		})
	}
	assert.Zero(t, calls.Load())
}

func TestGoToStep_MonotonicGating(t *testing.T) {
	states := map[string]func(t *testing.T) *Machine{
		"initial": func(*testing.T) *Machine { return NewMachine() },
		"type only": func(*testing.T) *Machine {
			m := NewMachine()
			m.SetSelectedType(beacon.TypeLearning)
			return m
		},
		"all valid": func(t *testing.T) *Machine { return filledMachine(t, StepType) },
		"base broken": func(t *testing.T) *Machine {
			m := filledMachine(t, StepType)
			m.UpdateBaseFields(beacon.Fields{"description": "short"})
			return m
		},
		"details broken": func(t *testing.T) *Machine {
			m := filledMachine(t, StepPreview)
			m.UpdateTypeFields(beacon.Fields{"prize_pool": []string{}})
			return m
		},
	}

	for name, build := range states {
		for _, target := range Steps() {
			t.Run(name+"/"+target.Title(), func(t *testing.T) {
				m := build(t)
				s := m.State()
				want := true
				for k := FirstStep; k < target; k++ {
					want = want && IsStepValid(k, s)
				}

				got := NewNavigator(m, Collaborators{}).GoToStep(target)
				assert.Equal(t, want, got)
				if got {
					assert.Equal(t, target, m.State().CurrentStep)
				} else {
					assert.Equal(t, s.CurrentStep, m.State().CurrentStep)
				}
			})
		}
	}
}

func TestGoToStep_RejectsInvalidTarget(t *testing.T) {
	n := NewNavigator(filledMachine(t, StepBase), Collaborators{})
	assert.False(t, n.GoToStep(0))
	assert.False(t, n.GoToStep(5))
	assert.Equal(t, StepBase, n.Machine().State().CurrentStep)
}

func TestHandleNext_SubmitsOnceAndResetsAfterResolution(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	var got beacon.Payload
	submit := func(_ context.Context, p beacon.Payload) error {
		calls.Add(1)
		got = p
		<-release
		return nil
	}

	m := filledMachine(t, StepPreview)
	want := m.State().FormData.Payload()
	n := NewNavigator(m, Collaborators{Submit: submit})

	sub, ok := n.Advance()
	require.True(t, ok)
	require.NotNil(t, sub)
	assert.True(t, m.State().IsSubmitting)
	assert.False(t, sub.Draft)

	done := make(chan error, 1)
	go func() { done <- sub.Run(context.Background()) }()

	// Still pending: nothing is reset yet.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, StepPreview, m.State().CurrentStep)
	assert.True(t, m.State().IsDirty)

	close(release)
	require.NoError(t, n.Complete(sub, <-done))

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, want, got)
	assert.Empty(t, got.Status)
	assert.Empty(t, cmp.Diff(InitialState(), m.State()))
}

func TestHandleNext_FailureKeepsState(t *testing.T) {
	boom := errors.New("network down")
	m := filledMachine(t, StepPreview)
	before := m.State()
	n := NewNavigator(m, Collaborators{Submit: func(context.Context, beacon.Payload) error { return boom }})

	err := n.HandleNext(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Empty(t, cmp.Diff(before, m.State()))
	assert.False(t, n.Busy())
}

func TestHandleNext_PanickingCollaboratorReleasesLock(t *testing.T) {
	m := filledMachine(t, StepPreview)
	n := NewNavigator(m, Collaborators{Submit: func(context.Context, beacon.Payload) error { panic("boom") }})

	err := n.HandleNext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.False(t, n.Busy())
	assert.Equal(t, StepPreview, m.State().CurrentStep)
}

func TestHandleNext_NoSubmitter(t *testing.T) {
	m := filledMachine(t, StepPreview)
	n := NewNavigator(m, Collaborators{})
	sub, ok := n.Advance()
	assert.Nil(t, sub)
	assert.False(t, ok)
	assert.False(t, n.Busy())
}

func TestHandleNext_TimeoutReleasesLock(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	hung := func(context.Context, beacon.Payload) error {
		<-release
		return nil
	}
	m := filledMachine(t, StepPreview)
	n := NewNavigator(m, Collaborators{Submit: hung}, WithSubmitTimeout(20*time.Millisecond))

	err := n.HandleNext(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, n.Busy())
	assert.Equal(t, StepPreview, m.State().CurrentStep)
}

func TestComplete_IgnoresStaleSubmission(t *testing.T) {
	m := filledMachine(t, StepPreview)
	n := NewNavigator(m, Collaborators{Submit: func(context.Context, beacon.Payload) error { return nil }})

	stale := &Submission{}
	require.NoError(t, n.Complete(stale, nil))
	assert.Equal(t, StepPreview, m.State().CurrentStep)
	assert.NoError(t, n.Complete(nil, nil))
}

func TestSaveDraft(t *testing.T) {
	var saved []beacon.Payload
	draft := func(_ context.Context, p beacon.Payload) error {
		saved = append(saved, p)
		return nil
	}

	t.Run("not on step 1", func(t *testing.T) {
		n := NewNavigator(filledMachine(t, StepType), Collaborators{SaveDraft: draft})
		assert.False(t, n.CanSaveDraft())
		assert.ErrorIs(t, n.SaveDraft(context.Background()), ErrDraftBlocked)
	})

	t.Run("not when clean", func(t *testing.T) {
		m := NewMachine()
		m.SetStep(StepBase)
		n := NewNavigator(m, Collaborators{SaveDraft: draft})
		assert.False(t, n.CanSaveDraft())
	})

	t.Run("not without collaborator", func(t *testing.T) {
		n := NewNavigator(filledMachine(t, StepBase), Collaborators{})
		assert.False(t, n.CanSaveDraft())
	})

	t.Run("saves with draft marker and never resets", func(t *testing.T) {
		saved = nil
		m := filledMachine(t, StepDetails)
		before := m.State()
		n := NewNavigator(m, Collaborators{SaveDraft: draft})

		require.True(t, n.CanSaveDraft())
		require.NoError(t, n.SaveDraft(context.Background()))

		require.Len(t, saved, 1)
		assert.True(t, saved[0].IsDraft())
		assert.Equal(t, beacon.TypeHackathon, saved[0].ProjectType)
		assert.Empty(t, cmp.Diff(before, m.State()))
	})

	t.Run("invalid data can still be drafted", func(t *testing.T) {
		saved = nil
		m := NewMachine()
		m.UpdateBaseFields(beacon.Fields{"title": "ab"})
		m.SetStep(StepBase)
		n := NewNavigator(m, Collaborators{SaveDraft: draft})
		require.NoError(t, n.SaveDraft(context.Background()))
		require.Len(t, saved, 1)
		assert.Equal(t, "ab", saved[0].Title)
	})
}

func TestRefresh(t *testing.T) {
	m := filledMachine(t, StepBase)
	n := NewNavigator(m, Collaborators{})
	n.Refresh()
	for _, step := range Steps() {
		assert.True(t, m.State().StepValidation[step])
	}
	assert.True(t, m.State().IsDirty)

	m.UpdateBaseFields(beacon.Fields{"title": ""})
	n.Refresh()
	assert.False(t, m.State().StepValidation[StepBase])
	assert.True(t, m.State().StepValidation[StepDetails])
}
