package beacon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_Shallow(t *testing.T) {
	cur := HackathonFields{
		EventName: "Jam",
		PrizePool: []string{"a", "b"},
		Rules:     []string{"r1"},
	}

	next, err := Merge(cur, Fields{"prize_pool": []string{"a"}, "duration_hours": 24})
	require.NoError(t, err)

	assert.Equal(t, "Jam", next.EventName)
	assert.Equal(t, []string{"a"}, next.PrizePool)
	assert.Equal(t, []string{"r1"}, next.Rules)
	assert.Equal(t, 24, next.DurationHours)

	// The input is untouched and not aliased.
	assert.Equal(t, []string{"a", "b"}, cur.PrizePool)
	next.Rules[0] = "changed"
	assert.Equal(t, "r1", cur.Rules[0])
}

func TestMerge_RejectsUnknownKey(t *testing.T) {
	cur := BaseFields{Title: "keep"}
	next, err := Merge(cur, Fields{"title": "new", "prize_pool": []string{"x"}})
	require.Error(t, err)
	assert.Equal(t, "keep", next.Title)
}

func TestMerge_RejectsWrongType(t *testing.T) {
	cur := BaseFields{Title: "keep"}
	_, err := Merge(cur, Fields{"team_size_min": []string{"x"}})
	require.Error(t, err)
}

func TestMerge_AcceptsJSONNumbersAndLists(t *testing.T) {
	next, err := Merge(LearningFields{}, Fields{
		"duration_weeks": float64(6),
		"learning_goals": []any{"one", "two"},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, next.DurationWeeks)
	assert.Equal(t, []string{"one", "two"}, next.LearningGoals)
}

func TestMerge_RejectsFraction(t *testing.T) {
	cur := HackathonFields{DurationHours: 24}
	next, err := Merge(cur, Fields{"duration_hours": 2.7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whole number")
	assert.Equal(t, 24, next.DurationHours)

	next, err = Merge(cur, Fields{"duration_hours": float32(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, next.DurationHours)
}

func TestMerge_EmptyPartialClones(t *testing.T) {
	cur := TutorialFields{Sections: []string{"intro"}}
	next, err := Merge(cur, nil)
	require.NoError(t, err)
	next.Sections[0] = "changed"
	assert.Equal(t, "intro", cur.Sections[0])
}

func TestToFields_UsesWireNames(t *testing.T) {
	f, err := ToFields(OpenSourceFields{License: "MIT", TechStack: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, "MIT", f["license"])
	assert.Equal(t, []string{"go"}, f["tech_stack"])
	assert.Contains(t, f.Keys(), "good_first_issues")
}

func TestMergeFieldSet_KeepsConcreteType(t *testing.T) {
	fs, err := MergeFieldSet(ResearchFields{}, Fields{"research_area": "Compilers"})
	require.NoError(t, err)
	rf, ok := fs.(ResearchFields)
	require.True(t, ok)
	assert.Equal(t, "Compilers", rf.ResearchArea)
}

func TestDecodeFieldSet_UnknownType(t *testing.T) {
	_, err := DecodeFieldSet("space_program", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProjectType))
}

func TestParseProjectType(t *testing.T) {
	tests := []struct {
		in   string
		want ProjectType
		ok   bool
	}{
		{"hackathon", TypeHackathon, true},
		{"Open-Source", TypeOpenSource, true},
		{" research ", TypeResearch, true},
		{"", "", false},
		{"startup", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProjectType(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrUnknownProjectType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestListField_Get(t *testing.T) {
	f := HackathonFields{PrizePool: []string{"x"}}
	assert.Equal(t, []string{"x"}, PrizePool.Get(f))
	assert.Equal(t, "prize_pool", PrizePool.Name)
	assert.Nil(t, HackathonRules.Get(f))
}
