package wizard

import (
	"slices"
	"strings"

	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/form"
)

// listBinding is the untyped view of one list field that the form rows use.
// Type-specific lists go through the array harness; base tags are updated
// directly.
type listBinding struct {
	items  func() []string
	add    func(string) bool
	remove func(int) bool
	max    int
}

// bindLists binds each list field of F to the machine's live slot.
func bindLists[F beacon.FieldSet](m *form.Machine, fields ...beacon.ListField[F]) map[string]listBinding {
	arr, ok := form.BindFieldArray[F](m)
	if !ok {
		return nil
	}
	out := make(map[string]listBinding, len(fields))
	for _, f := range fields {
		out[f.Name] = listBinding{
			items:  func() []string { return arr.Items(f) },
			add:    func(item string) bool { return arr.AddItem(f, item) },
			remove: func(i int) bool { return arr.RemoveItem(f, i) },
			max:    arr.MaxItems(f),
		}
	}
	return out
}

// typeLists returns the list bindings of the selected project type.
func typeLists(m *form.Machine) map[string]listBinding {
	switch m.State().SelectedType {
	case beacon.TypeLearning:
		return bindLists(m, beacon.LearningGoals, beacon.TechnologiesToLearn, beacon.ResourcesProvided)
	case beacon.TypePortfolio:
		return bindLists(m, beacon.ShowcaseGoals, beacon.Features, beacon.DesignRequirements)
	case beacon.TypeOpenSource:
		return bindLists(m, beacon.ContributionAreas, beacon.TechStack, beacon.GoodFirstIssues)
	case beacon.TypeHackathon:
		return bindLists(m, beacon.PrizePool, beacon.HackathonRules, beacon.SubmissionRequirements)
	case beacon.TypeTutorial:
		return bindLists(m, beacon.LearningOutcomes, beacon.Prerequisites, beacon.Sections)
	case beacon.TypeResearch:
		return bindLists(m, beacon.ResearchQuestions, beacon.Methodology, beacon.ExpectedOutcomes)
	}
	return nil
}

// tagsBinding edits the base tags list with the same rules as the harness.
func tagsBinding(m *form.Machine) listBinding {
	rule, _ := beacon.BaseSchema.Rule("tags")
	items := func() []string { return m.State().FormData.Base.Tags }
	return listBinding{
		items: items,
		add: func(item string) bool {
			item = strings.TrimSpace(item)
			cur := items()
			if item == "" || (rule.MaxItems > 0 && len(cur) >= rule.MaxItems) {
				return false
			}
			m.UpdateBaseFields(beacon.Fields{"tags": append(slices.Clone(cur), item)})
			return true
		},
		remove: func(i int) bool {
			cur := items()
			if i < 0 || i >= len(cur) {
				return false
			}
			m.UpdateBaseFields(beacon.Fields{"tags": slices.Delete(slices.Clone(cur), i, i+1)})
			return true
		},
		max: rule.MaxItems,
	}
}
