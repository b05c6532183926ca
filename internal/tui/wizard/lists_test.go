package wizard

import (
	"testing"

	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeListsCoverEveryListRule(t *testing.T) {
	for _, pt := range beacon.ProjectTypes() {
		t.Run(string(pt), func(t *testing.T) {
			m := form.NewMachine()
			require.True(t, m.SetSelectedType(pt))

			lists := typeLists(m)
			schema, ok := beacon.SchemaFor(pt)
			require.True(t, ok)
			for _, r := range schema.Rules {
				if r.Kind != beacon.KindList {
					continue
				}
				b, ok := lists[r.Field]
				if assert.True(t, ok, "no binding for %s", r.Field) {
					assert.Equal(t, r.MaxItems, b.max)
				}
			}
		})
	}
}

func TestTypeListsWithoutSelection(t *testing.T) {
	assert.Nil(t, typeLists(form.NewMachine()))
}

func TestListBindingComposes(t *testing.T) {
	m := form.NewMachine()
	m.SetSelectedType(beacon.TypeResearch)
	b := typeLists(m)["methodology"]

	assert.True(t, b.add("Interviews"))
	assert.True(t, b.add("Benchmarks"))
	assert.False(t, b.add("   "))
	assert.Equal(t, []string{"Interviews", "Benchmarks"}, b.items())

	assert.False(t, b.remove(5))
	assert.True(t, b.remove(0))
	assert.Equal(t, []string{"Benchmarks"}, b.items())
}

func TestTagsBindingRespectsMax(t *testing.T) {
	m := form.NewMachine()
	b := tagsBinding(m)
	for i := 0; i < b.max; i++ {
		assert.True(t, b.add(" tag "))
	}
	assert.False(t, b.add("one-too-many"))
	assert.Len(t, m.State().FormData.Base.Tags, b.max)
	assert.Equal(t, "tag", m.State().FormData.Base.Tags[0])
}
