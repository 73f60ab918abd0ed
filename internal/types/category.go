package types

// Category is the closed set of work classifications a task may carry.
type Category string

const (
	CategoryAcademicStudies     Category = "academic_studies"
	CategoryDeepWork            Category = "deep_work"
	CategoryMeetings            Category = "meetings"
	CategoryCommunication       Category = "communication"
	CategoryPlanning            Category = "planning"
	CategoryCreativeWork        Category = "creative_work"
	CategoryLearning            Category = "learning"
	CategoryAdministrative      Category = "administrative"
	CategoryExerciseWellness    Category = "exercise_wellness"
	CategoryPersonalDevelopment Category = "personal_development"
	CategoryHousehold           Category = "household"
)

// categoryInfo carries the presentation attributes attached to each category
// in dashboard responses.
type categoryInfo struct {
	display string
	color   string
}

var categories = map[Category]categoryInfo{
	CategoryAcademicStudies:     {"Academic Studies", "#4F46E5"},
	CategoryDeepWork:            {"Deep Work", "#0EA5E9"},
	CategoryMeetings:            {"Meetings", "#F59E0B"},
	CategoryCommunication:       {"Communication", "#10B981"},
	CategoryPlanning:            {"Planning", "#8B5CF6"},
	CategoryCreativeWork:        {"Creative Work", "#EC4899"},
	CategoryLearning:            {"Learning", "#14B8A6"},
	CategoryAdministrative:      {"Administrative", "#6B7280"},
	CategoryExerciseWellness:    {"Exercise & Wellness", "#84CC16"},
	CategoryPersonalDevelopment: {"Personal Development", "#F97316"},
	CategoryHousehold:           {"Household", "#A855F7"},
}

// Categories lists every valid category value for boundary validation, in a
// stable order so validation messages are deterministic.
var Categories = []string{
	string(CategoryAcademicStudies),
	string(CategoryDeepWork),
	string(CategoryMeetings),
	string(CategoryCommunication),
	string(CategoryPlanning),
	string(CategoryCreativeWork),
	string(CategoryLearning),
	string(CategoryAdministrative),
	string(CategoryExerciseWellness),
	string(CategoryPersonalDevelopment),
	string(CategoryHousehold),
}

// Valid reports whether the category is a member of the closed enumeration.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// DisplayName returns the human-readable category label, or the raw value for
// categories outside the enumeration.
func (c Category) DisplayName() string {
	if info, ok := categories[c]; ok {
		return info.display
	}
	return string(c)
}

// Color returns the fixed chart color assigned to the category.
func (c Category) Color() string {
	if info, ok := categories[c]; ok {
		return info.color
	}
	return "#9CA3AF"
}
