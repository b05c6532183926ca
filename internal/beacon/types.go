// Package beacon defines the beacon data model: the common base fields, the six
// project-type field sets, and the declarative schemas that validate them.
package beacon

import (
	"errors"
	"fmt"
	"strings"
)

// ProjectType identifies the category of a beacon. The set is closed.
type ProjectType string

const (
	TypeLearning   ProjectType = "learning"
	TypePortfolio  ProjectType = "portfolio"
	TypeOpenSource ProjectType = "open_source"
	TypeHackathon  ProjectType = "hackathon"
	TypeTutorial   ProjectType = "tutorial"
	TypeResearch   ProjectType = "research"
)

// ErrUnknownProjectType is returned when a string does not name a project type.
var ErrUnknownProjectType = errors.New("unknown project type")

// ProjectTypes lists every project type in display order.
func ProjectTypes() []ProjectType {
	return []ProjectType{
		TypeLearning,
		TypePortfolio,
		TypeOpenSource,
		TypeHackathon,
		TypeTutorial,
		TypeResearch,
	}
}

// ParseProjectType parses a project type tag. Matching is case-insensitive and
// accepts dashes in place of underscores ("open-source").
func ParseProjectType(s string) (ProjectType, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, t := range ProjectTypes() {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProjectType, s)
}

// Valid reports whether t is one of the six project types.
func (t ProjectType) Valid() bool {
	switch t {
	case TypeLearning, TypePortfolio, TypeOpenSource, TypeHackathon, TypeTutorial, TypeResearch:
		return true
	}
	return false
}

// Label returns the human-readable name of the project type.
func (t ProjectType) Label() string {
	switch t {
	case TypeLearning:
		return "Learning"
	case TypePortfolio:
		return "Portfolio"
	case TypeOpenSource:
		return "Open Source"
	case TypeHackathon:
		return "Hackathon"
	case TypeTutorial:
		return "Tutorial"
	case TypeResearch:
		return "Research"
	default:
		return "Unknown"
	}
}

// Description returns a one-line summary shown next to the type in pickers.
func (t ProjectType) Description() string {
	switch t {
	case TypeLearning:
		return "Learn a new technology together with other developers"
	case TypePortfolio:
		return "Build a showcase piece for your portfolio"
	case TypeOpenSource:
		return "Grow an open source project with new contributors"
	case TypeHackathon:
		return "Form a team for a hackathon or game jam"
	case TypeTutorial:
		return "Write or record a tutorial series with co-authors"
	case TypeResearch:
		return "Explore a research question and publish the results"
	default:
		return ""
	}
}

// Difficulty levels accepted by the base schema.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Difficulties lists the accepted difficulty levels in ascending order.
func Difficulties() []string {
	return []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// Categories are the suggested values for the free-form category field.
var Categories = []string{
	"web",
	"mobile",
	"ai-ml",
	"devtools",
	"games",
	"data",
	"infrastructure",
	"other",
}
