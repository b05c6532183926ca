package beacon

// maxItemLen bounds every entry of a type-specific list.
const maxItemLen = 200

// LearningSchema validates LearningFields.
var LearningSchema = Schema{
	Name: string(TypeLearning),
	Rules: []Rule{
		{Field: "duration_weeks", Label: "Duration (weeks)", Kind: KindInt, Required: true, Min: 1, Max: 52},
		{Field: "pace", Label: "Pace", Kind: KindEnum, Required: true, Enum: []string{"self_paced", "scheduled"}},
		{Field: "learning_goals", Label: "Learning goals", Kind: KindList, Required: true, MinItems: 1, MaxItems: 10, MaxLen: maxItemLen,
			Help: "What everyone should be able to do afterwards"},
		{Field: "technologies_to_learn", Label: "Technologies to learn", Kind: KindList, Required: true, MinItems: 1, MaxItems: 15, MaxLen: maxItemLen},
		{Field: "resources_provided", Label: "Resources provided", Kind: KindList, MaxItems: 10, MaxLen: maxItemLen},
	},
}

// PortfolioSchema validates PortfolioFields.
var PortfolioSchema = Schema{
	Name: string(TypePortfolio),
	Rules: []Rule{
		{Field: "portfolio_type", Label: "Portfolio type", Kind: KindEnum, Required: true,
			Enum: []string{"personal_site", "case_study", "design_showcase", "app_showcase"}},
		{Field: "showcase_goals", Label: "Showcase goals", Kind: KindList, Required: true, MinItems: 1, MaxItems: 10, MaxLen: maxItemLen},
		{Field: "features", Label: "Features", Kind: KindList, Required: true, MinItems: 1, MaxItems: 15, MaxLen: maxItemLen},
		{Field: "design_requirements", Label: "Design requirements", Kind: KindList, MaxItems: 10, MaxLen: maxItemLen},
	},
}

// OpenSourceSchema validates OpenSourceFields.
var OpenSourceSchema = Schema{
	Name: string(TypeOpenSource),
	Rules: []Rule{
		{Field: "license", Label: "License", Kind: KindEnum, Required: true,
			Enum: []string{"MIT", "Apache-2.0", "GPL-3.0", "BSD-3-Clause", "MPL-2.0", "other"}},
		{Field: "maintainer_commitment", Label: "Maintainer commitment", Kind: KindEnum, Required: true,
			Enum: []string{"casual", "regular", "active"}},
		{Field: "contribution_areas", Label: "Contribution areas", Kind: KindList, Required: true, MinItems: 1, MaxItems: 10, MaxLen: maxItemLen},
		{Field: "tech_stack", Label: "Tech stack", Kind: KindList, Required: true, MinItems: 1, MaxItems: 15, MaxLen: maxItemLen},
		{Field: "good_first_issues", Label: "Good first issues", Kind: KindList, MaxItems: 20, MaxLen: maxItemLen},
	},
}

// HackathonSchema validates HackathonFields.
var HackathonSchema = Schema{
	Name: string(TypeHackathon),
	Rules: []Rule{
		{Field: "event_name", Label: "Event name", Kind: KindString, Required: true, MinLen: 3, MaxLen: 100},
		{Field: "duration_hours", Label: "Duration (hours)", Kind: KindInt, Required: true, Min: 1, Max: 168},
		{Field: "team_formation", Label: "Team formation", Kind: KindEnum, Required: true, Enum: []string{"solo", "team", "either"}},
		{Field: "prize_pool", Label: "Prize pool", Kind: KindList, Required: true, MinItems: 1, MaxItems: 10, MaxLen: maxItemLen},
		{Field: "rules", Label: "Rules", Kind: KindList, Required: true, MinItems: 1, MaxItems: 20, MaxLen: maxItemLen},
		{Field: "submission_requirements", Label: "Submission requirements", Kind: KindList, Required: true, MinItems: 1, MaxItems: 10, MaxLen: maxItemLen},
	},
}

// TutorialSchema validates TutorialFields.
var TutorialSchema = Schema{
	Name: string(TypeTutorial),
	Rules: []Rule{
		{Field: "format", Label: "Format", Kind: KindEnum, Required: true, Enum: []string{"written", "video", "interactive", "mixed"}},
		{Field: "estimated_hours", Label: "Estimated hours", Kind: KindInt, Required: true, Min: 1, Max: 200},
		{Field: "learning_outcomes", Label: "Learning outcomes", Kind: KindList, Required: true, MinItems: 1, MaxItems: 10, MaxLen: maxItemLen},
		{Field: "prerequisites", Label: "Prerequisites", Kind: KindList, MaxItems: 10, MaxLen: maxItemLen},
		{Field: "sections", Label: "Sections", Kind: KindList, Required: true, MinItems: 1, MaxItems: 30, MaxLen: maxItemLen},
	},
}

// ResearchSchema validates ResearchFields.
var ResearchSchema = Schema{
	Name: string(TypeResearch),
	Rules: []Rule{
		{Field: "research_area", Label: "Research area", Kind: KindString, Required: true, MinLen: 3, MaxLen: 100},
		{Field: "publication_intent", Label: "Publication intent", Kind: KindEnum, Required: true,
			Enum: []string{"paper", "blog", "report", "none"}},
		{Field: "duration_months", Label: "Duration (months)", Kind: KindInt, Required: true, Min: 1, Max: 36},
		{Field: "research_questions", Label: "Research questions", Kind: KindList, Required: true, MinItems: 1, MaxItems: 10, MaxLen: maxItemLen},
		{Field: "methodology", Label: "Methodology", Kind: KindList, Required: true, MinItems: 1, MaxItems: 10, MaxLen: maxItemLen},
		{Field: "expected_outcomes", Label: "Expected outcomes", Kind: KindList, Required: true, MinItems: 1, MaxItems: 10, MaxLen: maxItemLen},
	},
}

// SchemaFor returns the type-specific schema for t. The second result is false
// when t is not a project type.
func SchemaFor(t ProjectType) (Schema, bool) {
	switch t {
	case TypeLearning:
		return LearningSchema, true
	case TypePortfolio:
		return PortfolioSchema, true
	case TypeOpenSource:
		return OpenSourceSchema, true
	case TypeHackathon:
		return HackathonSchema, true
	case TypeTutorial:
		return TutorialSchema, true
	case TypeResearch:
		return ResearchSchema, true
	}
	return Schema{}, false
}

// ValidateFieldSet validates fs against the schema of its own project type.
func ValidateFieldSet(fs FieldSet) Issues {
	if fs == nil {
		return Issues{{Field: "type_specific_data", Message: "is required"}}
	}
	schema, ok := SchemaFor(fs.ProjectType())
	if !ok {
		return Issues{{Field: "project_type", Message: "is not a known project type"}}
	}
	f, err := ToFields(fs)
	if err != nil {
		return Issues{{Field: "type_specific_data", Message: err.Error()}}
	}
	return schema.Validate(f)
}

// ValidateBase validates the common fields.
func ValidateBase(b BaseFields) Issues {
	f, err := ToFields(b)
	if err != nil {
		return Issues{{Field: "base", Message: err.Error()}}
	}
	return BaseSchema.Validate(f)
}
