package prompt

import (
	"testing"

	"edugen-be/pkg/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildActivityIncludesFormFields(t *testing.T) {
	out, err := Build(content.TypeActivity, &Request{
		Topic:         "Fractions",
		Grade:         "5",
		Pages:         2,
		QuestionTypes: []string{"multipleChoice", "open"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, `"Fractions"`)
	assert.Contains(t, out, "grade 5")
	assert.Contains(t, out, "2 page(s)")
	assert.Contains(t, out, "multipleChoice, open")
	assert.Contains(t, out, "<schema>")
}

func TestBuildEveryTypeCarriesOutputContract(t *testing.T) {
	types := []string{
		content.TypeActivity,
		content.TypeLessonPlan,
		content.TypePlanningAssistant,
		content.TypeCaseStudy,
		content.TypePresentation,
		content.TypeSummary,
	}

	for _, ct := range types {
		out, err := Build(ct, &Request{Topic: "Water cycle", SourceText: "some text"})
		require.NoError(t, err, ct)
		assert.Contains(t, out, "<output>", ct)
		assert.Contains(t, out, "single JSON object", ct)
	}
}

func TestBuildPlanningAssistantSchedule(t *testing.T) {
	out, err := Build(content.TypePlanningAssistant, &Request{
		ClassName: "5B",
		Subjects:  []string{"Math", "Science"},
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
		Weekdays:  []string{"Monday", "Wednesday"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "5B")
	assert.Contains(t, out, "Math, Science")
	assert.Contains(t, out, "2026-03-01")
	assert.Contains(t, out, "Monday, Wednesday")
}

func TestBuildSummaryEmbedsSourceText(t *testing.T) {
	out, err := Build(content.TypeSummary, &Request{
		SourceText: "Mitochondria are the powerhouse of the cell.",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "<material>")
	assert.Contains(t, out, "powerhouse of the cell")
}

func TestBuildUnknownType(t *testing.T) {
	_, err := Build("poem", &Request{})
	assert.Error(t, err)
}
