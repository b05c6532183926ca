package form

import (
	"fmt"
	"testing"

	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects onUpdate partials.
type recorder struct {
	updates []beacon.Fields
}

func (r *recorder) onUpdate(f beacon.Fields) {
	r.updates = append(r.updates, f)
}

func TestAddItem_HackathonPrizePool(t *testing.T) {
	m := NewMachine()
	require.True(t, m.SetSelectedType(beacon.TypeHackathon))

	arr, ok := BindFieldArray[beacon.HackathonFields](m)
	require.True(t, ok)
	for i := 0; i < 3; i++ {
		assert.True(t, arr.AddItem(beacon.PrizePool, "1st place: $500"))
	}

	hf := m.State().FormData.TypeSpecific().(beacon.HackathonFields)
	assert.Equal(t, []string{"1st place: $500", "1st place: $500", "1st place: $500"}, hf.PrizePool)
	assert.Equal(t, hf.PrizePool, arr.Items(beacon.PrizePool))
}

func TestAddItem_KeepsInsertionOrder(t *testing.T) {
	m := NewMachine()
	m.SetSelectedType(beacon.TypeLearning)
	arr, ok := BindFieldArray[beacon.LearningFields](m)
	require.True(t, ok)

	for _, item := range []string{"b", "a", "c"} {
		arr.AddItem(beacon.LearningGoals, item)
	}
	assert.Equal(t, []string{"b", "a", "c"}, arr.Items(beacon.LearningGoals))
	assert.Nil(t, arr.Items(beacon.ResourcesProvided))
}

func TestAddItem_BlankIsNoop(t *testing.T) {
	for _, blank := range []string{"", " ", "\t", "  \n  "} {
		t.Run(fmt.Sprintf("%q", blank), func(t *testing.T) {
			var rec recorder
			data := beacon.TutorialFields{Sections: []string{"intro"}}
			arr := WithFieldArray(data, rec.onUpdate)

			assert.False(t, arr.AddItem(beacon.Sections, blank))
			assert.Empty(t, rec.updates)
			assert.Equal(t, []string{"intro"}, data.Sections)
		})
	}
}

func TestAddItem_Trims(t *testing.T) {
	var rec recorder
	arr := WithFieldArray(beacon.OpenSourceFields{TechStack: []string{"go"}}, rec.onUpdate)

	require.True(t, arr.AddItem(beacon.TechStack, "  x  "))
	require.Len(t, rec.updates, 1)
	assert.Equal(t, beacon.Fields{"tech_stack": []string{"go", "x"}}, rec.updates[0])
}

func TestAddItem_StopsAtMaxItems(t *testing.T) {
	m := NewMachine()
	m.SetSelectedType(beacon.TypeHackathon)
	arr, ok := BindFieldArray[beacon.HackathonFields](m)
	require.True(t, ok)
	assert.Equal(t, 10, arr.MaxItems(beacon.PrizePool))

	for i := 0; i < 10; i++ {
		require.True(t, arr.AddItem(beacon.PrizePool, fmt.Sprintf("prize %d", i)))
	}
	assert.False(t, arr.AddItem(beacon.PrizePool, "one too many"))
	assert.Len(t, arr.Items(beacon.PrizePool), 10)
}

func TestRemoveItem(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		want    []string
		changed bool
	}{
		{"first", 0, []string{"b", "c"}, true},
		{"middle", 1, []string{"a", "c"}, true},
		{"last", 2, []string{"a", "b"}, true},
		{"negative", -1, nil, false},
		{"past end", 3, nil, false},
		{"far past end", 100, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorder
			data := beacon.ResearchFields{Methodology: []string{"a", "b", "c"}}
			arr := WithFieldArray(data, rec.onUpdate)

			assert.Equal(t, tt.changed, arr.RemoveItem(beacon.Methodology, tt.index))
			assert.Equal(t, []string{"a", "b", "c"}, data.Methodology)
			if !tt.changed {
				assert.Empty(t, rec.updates)
				return
			}
			require.Len(t, rec.updates, 1)
			assert.Equal(t, tt.want, rec.updates[0]["methodology"])
		})
	}
}

func TestRemoveItem_EmptyList(t *testing.T) {
	var rec recorder
	arr := WithFieldArray(beacon.PortfolioFields{}, rec.onUpdate)
	assert.False(t, arr.RemoveItem(beacon.Features, 0))
	assert.Empty(t, rec.updates)
}

func TestUpdateArray(t *testing.T) {
	var rec recorder
	values := []string{"x", "y"}
	arr := WithFieldArray(beacon.PortfolioFields{Features: []string{"old"}}, rec.onUpdate)

	arr.UpdateArray(beacon.Features, values)
	arr.UpdateArray(beacon.DesignRequirements, nil)

	require.Len(t, rec.updates, 2)
	assert.Equal(t, []string{"x", "y"}, rec.updates[0]["features"])
	assert.Equal(t, []string{}, rec.updates[1]["design_requirements"])

	// The harness hands over its own copy.
	rec.updates[0]["features"].([]string)[0] = "mutated"
	assert.Equal(t, "x", values[0])
}

func TestBindFieldArray_WrongType(t *testing.T) {
	m := NewMachine()
	_, ok := BindFieldArray[beacon.HackathonFields](m)
	assert.False(t, ok)

	m.SetSelectedType(beacon.TypeLearning)
	_, ok = BindFieldArray[beacon.HackathonFields](m)
	assert.False(t, ok)
}

func TestFieldArray_ThroughMachineMarksDirtyAndValidates(t *testing.T) {
	m := NewMachine()
	m.SetSelectedType(beacon.TypeResearch)
	m.UpdateTypeFields(beacon.Fields{
		"research_area":      "Compilers",
		"publication_intent": "blog",
		"duration_months":    6,
	})
	arr, ok := BindFieldArray[beacon.ResearchFields](m)
	require.True(t, ok)

	assert.False(t, IsStepValid(StepDetails, m.State()))
	arr.AddItem(beacon.ResearchQuestions, "Can we JIT it?")
	arr.AddItem(beacon.Methodology, "Benchmarks")
	arr.AddItem(beacon.ExpectedOutcomes, "A paper draft")
	assert.True(t, IsStepValid(StepDetails, m.State()))
	assert.True(t, m.State().IsDirty)

	arr.RemoveItem(beacon.Methodology, 0)
	assert.False(t, IsStepValid(StepDetails, m.State()))
}
