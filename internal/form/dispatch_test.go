package form

import (
	"testing"

	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor_Total(t *testing.T) {
	for _, step := range []Step{0, StepType, StepBase, StepDetails, StepPreview, 5} {
		for _, pt := range append(beacon.ProjectTypes(), "", "bogus") {
			assert.NotPanics(t, func() { SchemaFor(step, pt) })
		}
	}

	s, ok := SchemaFor(StepPreview, beacon.TypeTutorial)
	require.True(t, ok)
	_, hasTitle := s.Rule("title")
	_, hasSections := s.Rule("sections")
	assert.True(t, hasTitle)
	assert.True(t, hasSections)

	_, ok = SchemaFor(StepDetails, "")
	assert.False(t, ok)
	_, ok = SchemaFor(StepBase, "")
	assert.True(t, ok)
}

func TestIsStepValid_TypeStep(t *testing.T) {
	s := InitialState()
	assert.False(t, IsStepValid(StepType, s))

	s = Reduce(s, SetSelectedType{Type: beacon.TypePortfolio})
	assert.True(t, IsStepValid(StepType, s))
}

func TestIsStepValid_BaseStep(t *testing.T) {
	s := Reduce(InitialState(), SetStep{Step: StepBase})
	s = Reduce(s, UpdateBaseFields{Fields: validBaseFields()})
	s = Reduce(s, UpdateBaseFields{Fields: beacon.Fields{"title": "ab"}})
	assert.False(t, IsStepValid(StepBase, s))
	assert.False(t, IsCurrentStepValid(s))
	assert.NotEmpty(t, StepIssues(StepBase, s).For("title"))

	s = Reduce(s, UpdateBaseFields{Fields: beacon.Fields{"title": "abc"}})
	assert.True(t, IsStepValid(StepBase, s))
	assert.True(t, IsCurrentStepValid(s))
}

func TestIsStepValid_BaseStepFromScratch(t *testing.T) {
	s := Reduce(InitialState(), SetStep{Step: StepBase})
	s = Reduce(s, UpdateBaseFields{Fields: beacon.Fields{"title": "ab"}})
	assert.False(t, IsStepValid(StepBase, s))

	s = Reduce(s, UpdateBaseFields{Fields: beacon.Fields{
		"title":       "abc",
		"description": "0123456789",
		"category":    "tools",
	}})
	assert.True(t, IsStepValid(StepBase, s), "issues: %v", StepIssues(StepBase, s))
}

func TestIsStepValid_DetailsStep(t *testing.T) {
	s := InitialState()
	assert.False(t, IsStepValid(StepDetails, s))
	assert.NotEmpty(t, StepIssues(StepDetails, s).For("project_type"))

	s = Reduce(s, SetSelectedType{Type: beacon.TypeHackathon})
	assert.False(t, IsStepValid(StepDetails, s))

	s = Reduce(s, UpdateTypeFields{Fields: validHackathonFields()})
	assert.True(t, IsStepValid(StepDetails, s))

	s = Reduce(s, UpdateTypeFields{Fields: beacon.Fields{"rules": []string{}}})
	assert.False(t, IsStepValid(StepDetails, s))
	assert.NotEmpty(t, StepIssues(StepDetails, s).For("rules"))
}

func TestIsStepValid_PreviewRevalidatesEverything(t *testing.T) {
	m := filledMachine(t, StepPreview)
	assert.True(t, IsStepValid(StepPreview, m.State()))

	m.UpdateBaseFields(beacon.Fields{"team_size_min": 6, "team_size_max": 3})
	assert.False(t, IsStepValid(StepPreview, m.State()))
	assert.NotEmpty(t, StepIssues(StepPreview, m.State()).For("team_size_max"))
}

func TestIsStepValid_UnknownStep(t *testing.T) {
	s := filledMachine(t, StepBase).State()
	assert.False(t, IsStepValid(0, s))
	assert.False(t, IsStepValid(5, s))
}

func TestCompletedSteps_NotNecessarilyPrefix(t *testing.T) {
	m := filledMachine(t, StepDetails)
	assert.Equal(t, []Step{StepType, StepBase, StepDetails, StepPreview}, CompletedSteps(m.State()))

	m.UpdateBaseFields(beacon.Fields{"title": ""})
	assert.Equal(t, []Step{StepType, StepDetails}, CompletedSteps(m.State()))

	assert.Empty(t, CompletedSteps(InitialState()))
}
