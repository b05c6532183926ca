package beacon

import "fmt"

// FieldSet is the type-specific part of a beacon. Each project type has its
// own concrete field set; all of them are plain value types.
type FieldSet interface {
	ProjectType() ProjectType
}

// ListField names a string-list field of the field set F. Declaring list
// fields as typed descriptors restricts array operations to list fields of
// the right field set at compile time.
type ListField[F FieldSet] struct {
	Name string
	get  func(F) []string
}

// NewListField declares a list field of F backed by get.
func NewListField[F FieldSet](name string, get func(F) []string) ListField[F] {
	return ListField[F]{Name: name, get: get}
}

// Get returns the current list stored in f. The result may be nil.
func (l ListField[F]) Get(f F) []string {
	if l.get == nil {
		return nil
	}
	return l.get(f)
}

// LearningFields describe a study-group style beacon.
type LearningFields struct {
	DurationWeeks       int      `json:"duration_weeks" yaml:"duration_weeks" mapstructure:"duration_weeks"`
	Pace                string   `json:"pace" yaml:"pace" mapstructure:"pace"`
	LearningGoals       []string `json:"learning_goals" yaml:"learning_goals" mapstructure:"learning_goals"`
	TechnologiesToLearn []string `json:"technologies_to_learn" yaml:"technologies_to_learn" mapstructure:"technologies_to_learn"`
	ResourcesProvided   []string `json:"resources_provided" yaml:"resources_provided" mapstructure:"resources_provided"`
}

func (LearningFields) ProjectType() ProjectType { return TypeLearning }

// PortfolioFields describe a showcase project.
type PortfolioFields struct {
	PortfolioType      string   `json:"portfolio_type" yaml:"portfolio_type" mapstructure:"portfolio_type"`
	ShowcaseGoals      []string `json:"showcase_goals" yaml:"showcase_goals" mapstructure:"showcase_goals"`
	Features           []string `json:"features" yaml:"features" mapstructure:"features"`
	DesignRequirements []string `json:"design_requirements" yaml:"design_requirements" mapstructure:"design_requirements"`
}

func (PortfolioFields) ProjectType() ProjectType { return TypePortfolio }

// OpenSourceFields describe an open source project looking for contributors.
type OpenSourceFields struct {
	License              string   `json:"license" yaml:"license" mapstructure:"license"`
	MaintainerCommitment string   `json:"maintainer_commitment" yaml:"maintainer_commitment" mapstructure:"maintainer_commitment"`
	ContributionAreas    []string `json:"contribution_areas" yaml:"contribution_areas" mapstructure:"contribution_areas"`
	TechStack            []string `json:"tech_stack" yaml:"tech_stack" mapstructure:"tech_stack"`
	GoodFirstIssues      []string `json:"good_first_issues" yaml:"good_first_issues" mapstructure:"good_first_issues"`
}

func (OpenSourceFields) ProjectType() ProjectType { return TypeOpenSource }

// HackathonFields describe a team forming for a hackathon.
type HackathonFields struct {
	EventName              string   `json:"event_name" yaml:"event_name" mapstructure:"event_name"`
	DurationHours          int      `json:"duration_hours" yaml:"duration_hours" mapstructure:"duration_hours"`
	TeamFormation          string   `json:"team_formation" yaml:"team_formation" mapstructure:"team_formation"`
	PrizePool              []string `json:"prize_pool" yaml:"prize_pool" mapstructure:"prize_pool"`
	Rules                  []string `json:"rules" yaml:"rules" mapstructure:"rules"`
	SubmissionRequirements []string `json:"submission_requirements" yaml:"submission_requirements" mapstructure:"submission_requirements"`
}

func (HackathonFields) ProjectType() ProjectType { return TypeHackathon }

// TutorialFields describe a tutorial series.
type TutorialFields struct {
	Format           string   `json:"format" yaml:"format" mapstructure:"format"`
	EstimatedHours   int      `json:"estimated_hours" yaml:"estimated_hours" mapstructure:"estimated_hours"`
	LearningOutcomes []string `json:"learning_outcomes" yaml:"learning_outcomes" mapstructure:"learning_outcomes"`
	Prerequisites    []string `json:"prerequisites" yaml:"prerequisites" mapstructure:"prerequisites"`
	Sections         []string `json:"sections" yaml:"sections" mapstructure:"sections"`
}

func (TutorialFields) ProjectType() ProjectType { return TypeTutorial }

// ResearchFields describe a research collaboration.
type ResearchFields struct {
	ResearchArea      string   `json:"research_area" yaml:"research_area" mapstructure:"research_area"`
	PublicationIntent string   `json:"publication_intent" yaml:"publication_intent" mapstructure:"publication_intent"`
	DurationMonths    int      `json:"duration_months" yaml:"duration_months" mapstructure:"duration_months"`
	ResearchQuestions []string `json:"research_questions" yaml:"research_questions" mapstructure:"research_questions"`
	Methodology       []string `json:"methodology" yaml:"methodology" mapstructure:"methodology"`
	ExpectedOutcomes  []string `json:"expected_outcomes" yaml:"expected_outcomes" mapstructure:"expected_outcomes"`
}

func (ResearchFields) ProjectType() ProjectType { return TypeResearch }

// List field descriptors, one per string-list field of each field set.
var (
	LearningGoals       = NewListField("learning_goals", func(f LearningFields) []string { return f.LearningGoals })
	TechnologiesToLearn = NewListField("technologies_to_learn", func(f LearningFields) []string { return f.TechnologiesToLearn })
	ResourcesProvided   = NewListField("resources_provided", func(f LearningFields) []string { return f.ResourcesProvided })

	ShowcaseGoals      = NewListField("showcase_goals", func(f PortfolioFields) []string { return f.ShowcaseGoals })
	Features           = NewListField("features", func(f PortfolioFields) []string { return f.Features })
	DesignRequirements = NewListField("design_requirements", func(f PortfolioFields) []string { return f.DesignRequirements })

	ContributionAreas = NewListField("contribution_areas", func(f OpenSourceFields) []string { return f.ContributionAreas })
	TechStack         = NewListField("tech_stack", func(f OpenSourceFields) []string { return f.TechStack })
	GoodFirstIssues   = NewListField("good_first_issues", func(f OpenSourceFields) []string { return f.GoodFirstIssues })

	PrizePool              = NewListField("prize_pool", func(f HackathonFields) []string { return f.PrizePool })
	HackathonRules         = NewListField("rules", func(f HackathonFields) []string { return f.Rules })
	SubmissionRequirements = NewListField("submission_requirements", func(f HackathonFields) []string { return f.SubmissionRequirements })

	LearningOutcomes = NewListField("learning_outcomes", func(f TutorialFields) []string { return f.LearningOutcomes })
	Prerequisites    = NewListField("prerequisites", func(f TutorialFields) []string { return f.Prerequisites })
	Sections         = NewListField("sections", func(f TutorialFields) []string { return f.Sections })

	ResearchQuestions = NewListField("research_questions", func(f ResearchFields) []string { return f.ResearchQuestions })
	Methodology       = NewListField("methodology", func(f ResearchFields) []string { return f.Methodology })
	ExpectedOutcomes  = NewListField("expected_outcomes", func(f ResearchFields) []string { return f.ExpectedOutcomes })
)

// EmptyFieldSet returns the zero field set for t, or nil if t is not a
// project type.
func EmptyFieldSet(t ProjectType) FieldSet {
	switch t {
	case TypeLearning:
		return LearningFields{}
	case TypePortfolio:
		return PortfolioFields{}
	case TypeOpenSource:
		return OpenSourceFields{}
	case TypeHackathon:
		return HackathonFields{}
	case TypeTutorial:
		return TutorialFields{}
	case TypeResearch:
		return ResearchFields{}
	}
	return nil
}

// MergeFieldSet shallow-merges partial into fs, keeping its concrete type.
func MergeFieldSet(fs FieldSet, partial Fields) (FieldSet, error) {
	switch f := fs.(type) {
	case LearningFields:
		return Merge(f, partial)
	case PortfolioFields:
		return Merge(f, partial)
	case OpenSourceFields:
		return Merge(f, partial)
	case HackathonFields:
		return Merge(f, partial)
	case TutorialFields:
		return Merge(f, partial)
	case ResearchFields:
		return Merge(f, partial)
	}
	return fs, fmt.Errorf("unsupported field set %T", fs)
}

// DecodeFieldSet builds the field set for t from a generic record.
func DecodeFieldSet(t ProjectType, raw Fields) (FieldSet, error) {
	empty := EmptyFieldSet(t)
	if empty == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProjectType, t)
	}
	return MergeFieldSet(empty, raw)
}
