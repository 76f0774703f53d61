package content

// Content type tags. The tag selects the payload schema; everything above the
// gateway treats payloads as opaque JSON.
const (
	TypeActivity          = "activity"
	TypeLessonPlan        = "lessonPlan"
	TypePlanningAssistant = "planningAssistant"
	TypeCaseStudy         = "caseStudy"
	TypePresentation      = "presentation"
	TypeSummary           = "summary"
)

// IsValidType reports whether t is one of the known content type tags.
func IsValidType(t string) bool {
	switch t {
	case TypeActivity, TypeLessonPlan, TypePlanningAssistant, TypeCaseStudy, TypePresentation, TypeSummary:
		return true
	}
	return false
}

// Activity is a question sheet.
type Activity struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	Number  int      `json:"number"`
	Type    string   `json:"type"` // "multipleChoice" | "open" | "trueFalse"
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer,omitempty"`
}

// LessonPlan is a single structured lesson.
type LessonPlan struct {
	Topic       string   `json:"topic"`
	Grade       string   `json:"grade,omitempty"`
	Objectives  []string `json:"objectives"`
	Materials   []string `json:"materials,omitempty"`
	Development string   `json:"development"`
	Assessment  string   `json:"assessment,omitempty"`
}

// PlanningAssistant is a day-by-day teaching schedule.
type PlanningAssistant struct {
	ClassName string          `json:"class_name,omitempty"`
	Schedule  []ScheduleEntry `json:"schedule"`
}

type ScheduleEntry struct {
	Date     string `json:"date"`
	Weekday  string `json:"weekday,omitempty"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	Activity string `json:"activity,omitempty"`
}

// CaseStudy is a narrative scenario with discussion questions.
type CaseStudy struct {
	Title     string   `json:"title"`
	Case      string   `json:"case"`
	Questions []string `json:"questions,omitempty"`
}

// Presentation is a slide deck outline.
type Presentation struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

type Slide struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	Bullets []string `json:"bullets,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

// Summary is formatted prose.
type Summary struct {
	Content string `json:"content"`
}

// Result is the tagged union produced by Normalize. Exactly one variant is
// non-nil, matching Type.
type Result struct {
	Type string

	Activity          *Activity
	LessonPlan        *LessonPlan
	PlanningAssistant *PlanningAssistant
	CaseStudy         *CaseStudy
	Presentation      *Presentation
	Summary           *Summary
}
