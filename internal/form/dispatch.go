package form

import (
	"github.com/mark3labs/beacon/internal/beacon"
)

// typeSchema validates step 1: a project type must be selected.
var typeSchema = beacon.Schema{
	Name: "project_type",
	Rules: []beacon.Rule{{
		Field:    "project_type",
		Label:    "Project type",
		Kind:     beacon.KindEnum,
		Required: true,
		Enum:     projectTypeNames(),
	}},
}

func projectTypeNames() []string {
	types := beacon.ProjectTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// SchemaFor returns the schema that gates step for project type t. Step 3 and
// 4 have no schema until a type is selected.
func SchemaFor(step Step, t beacon.ProjectType) (beacon.Schema, bool) {
	switch step {
	case StepType:
		return typeSchema, true
	case StepBase:
		return beacon.BaseSchema, true
	case StepDetails:
		return beacon.SchemaFor(t)
	case StepPreview:
		typed, ok := beacon.SchemaFor(t)
		if !ok {
			return beacon.Schema{}, false
		}
		return beacon.BaseSchema.Union(typed), true
	}
	return beacon.Schema{}, false
}

// StepIssues returns the field issues that keep step from validating. Views
// render these next to the offending fields.
func StepIssues(step Step, s State) beacon.Issues {
	switch step {
	case StepType:
		return typeSchema.Validate(beacon.Fields{"project_type": string(s.SelectedType)})

	case StepBase:
		return beacon.ValidateBase(s.FormData.Base)

	case StepDetails:
		if !s.SelectedType.Valid() {
			return beacon.Issues{{Field: "project_type", Message: "is required"}}
		}
		fs := s.FormData.Slots[s.SelectedType]
		if fs == nil || fs.ProjectType() != s.SelectedType {
			return beacon.Issues{{Field: "type_specific_data", Message: "is required"}}
		}
		return beacon.ValidateFieldSet(fs)

	case StepPreview:
		if !s.SelectedType.Valid() {
			return beacon.Issues{{Field: "project_type", Message: "is required"}}
		}
		p := s.FormData.Payload()
		p.ProjectType = s.SelectedType
		p.TypeSpecificData = s.FormData.Slots[s.SelectedType]
		return p.Validate()
	}
	return beacon.Issues{{Field: "step", Message: "is not a wizard step"}}
}

// IsStepValid reports whether step validates against s. Failures are reduced
// to false; use StepIssues for details.
func IsStepValid(step Step, s State) bool {
	return len(StepIssues(step, s)) == 0
}

// IsCurrentStepValid reports whether the current step validates.
func IsCurrentStepValid(s State) bool {
	return IsStepValid(s.CurrentStep, s)
}

// CompletedSteps returns every step that currently validates. The result is
// not necessarily a prefix of the step sequence.
func CompletedSteps(s State) []Step {
	var out []Step
	for _, step := range Steps() {
		if IsStepValid(step, s) {
			out = append(out, step)
		}
	}
	return out
}
