package beacon

import (
	"fmt"
	"net/url"
)

// Team size bounds accepted by the base schema.
const (
	MinTeamSize = 1
	MaxTeamSize = 20
)

// BaseFields are the fields common to every project type.
type BaseFields struct {
	Title         string   `json:"title" yaml:"title" mapstructure:"title"`
	Description   string   `json:"description" yaml:"description" mapstructure:"description"`
	Category      string   `json:"category" yaml:"category" mapstructure:"category"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty" mapstructure:"difficulty"`
	TeamSizeMin   int      `json:"team_size_min" yaml:"team_size_min" mapstructure:"team_size_min"`
	TeamSizeMax   int      `json:"team_size_max" yaml:"team_size_max" mapstructure:"team_size_max"`
	IsRemote      bool     `json:"is_remote" yaml:"is_remote" mapstructure:"is_remote"`
	IsPaid        bool     `json:"is_paid" yaml:"is_paid" mapstructure:"is_paid"`
	RepositoryURL string   `json:"repository_url,omitempty" yaml:"repository_url,omitempty" mapstructure:"repository_url"`
	DemoURL       string   `json:"demo_url,omitempty" yaml:"demo_url,omitempty" mapstructure:"demo_url"`
	Tags          []string `json:"tags" yaml:"tags" mapstructure:"tags"`
}

// DefaultBaseFields returns the base fields a new wizard starts with.
func DefaultBaseFields() BaseFields {
	return BaseFields{
		Difficulty:  DifficultyBeginner,
		TeamSizeMin: 1,
		TeamSizeMax: 4,
		IsRemote:    true,
	}
}

// BaseSchema validates the common fields of every beacon.
var BaseSchema = Schema{
	Name: "base",
	Rules: []Rule{
		{Field: "title", Label: "Title", Kind: KindString, Required: true, MinLen: 3, MaxLen: 100},
		{Field: "description", Label: "Description", Kind: KindText, Required: true, MinLen: 10, MaxLen: 2000},
		{Field: "category", Label: "Category", Kind: KindString, Required: true, MaxLen: 50},
		{Field: "difficulty", Label: "Difficulty", Kind: KindEnum, Required: true, Enum: Difficulties()},
		{Field: "team_size_min", Label: "Minimum team size", Kind: KindInt, Required: true, Min: MinTeamSize, Max: MaxTeamSize},
		{Field: "team_size_max", Label: "Maximum team size", Kind: KindInt, Required: true, Min: MinTeamSize, Max: MaxTeamSize},
		{Field: "is_remote", Label: "Remote friendly", Kind: KindBool},
		{Field: "is_paid", Label: "Paid", Kind: KindBool},
		{Field: "repository_url", Label: "Repository URL", Kind: KindURL, MaxLen: 300},
		{Field: "demo_url", Label: "Demo URL", Kind: KindURL, MaxLen: 300},
		{Field: "tags", Label: "Tags", Kind: KindList, MaxItems: 10, MaxLen: 30},
	},
	Checks: []Check{checkTeamSizeOrder},
}

// checkTeamSizeOrder requires team_size_min <= team_size_max.
func checkTeamSizeOrder(f Fields) *Issue {
	lo, okLo := asInt(f["team_size_min"])
	hi, okHi := asInt(f["team_size_max"])
	if !okLo || !okHi || lo == 0 || hi == 0 {
		return nil
	}
	if lo > hi {
		return &Issue{
			Field:   "team_size_max",
			Message: fmt.Sprintf("maximum team size must be at least the minimum (%d)", lo),
		}
	}
	return nil
}

// isHTTPURL reports whether s is an absolute http(s) URL with a host.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
