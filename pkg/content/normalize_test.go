package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeActivity(t *testing.T) {
	raw := `{"title":"Fractions","questions":[{"type":"open","text":"What is 1/2 + 1/4?"},{"type":"trueFalse","text":"1/2 > 1/3"}]}`

	res, err := Normalize(TypeActivity, raw)
	require.NoError(t, err)
	require.NotNil(t, res.Activity)
	assert.Equal(t, "Fractions", res.Activity.Title)
	require.Len(t, res.Activity.Questions, 2)

	// Missing numbers are filled in sequentially.
	assert.Equal(t, 1, res.Activity.Questions[0].Number)
	assert.Equal(t, 2, res.Activity.Questions[1].Number)
}

func TestNormalizeActivityNoQuestions(t *testing.T) {
	_, err := Normalize(TypeActivity, `{"title":"Empty","questions":[]}`)
	assert.Error(t, err)
}

func TestNormalizeStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"topic\":\"Photosynthesis\",\"objectives\":[\"explain the process\"],\"development\":\"...\"}\n```"

	res, err := Normalize(TypeLessonPlan, raw)
	require.NoError(t, err)
	require.NotNil(t, res.LessonPlan)
	assert.Equal(t, "Photosynthesis", res.LessonPlan.Topic)
}

func TestNormalizeLessonPlanMissingObjectives(t *testing.T) {
	_, err := Normalize(TypeLessonPlan, `{"topic":"Photosynthesis","development":"..."}`)
	assert.Error(t, err)
}

func TestNormalizeMalformedJSON(t *testing.T) {
	_, err := Normalize(TypeActivity, `{"title": "broken`)
	assert.Error(t, err)
}

func TestNormalizeUnknownType(t *testing.T) {
	_, err := Normalize("poem", `{}`)
	assert.Error(t, err)
}

func TestNormalizeSummaryAcceptsPlainProse(t *testing.T) {
	res, err := Normalize(TypeSummary, "The water cycle describes how water moves through the environment.")
	require.NoError(t, err)
	require.NotNil(t, res.Summary)
	assert.Contains(t, res.Summary.Content, "water cycle")
}

func TestNormalizeSummaryEmpty(t *testing.T) {
	_, err := Normalize(TypeSummary, "   ")
	assert.Error(t, err)
}

func TestNormalizePresentationNumbersSlides(t *testing.T) {
	raw := `{"title":"Rome","slides":[{"title":"Founding"},{"title":"Republic"}]}`

	res, err := Normalize(TypePresentation, raw)
	require.NoError(t, err)
	require.Len(t, res.Presentation.Slides, 2)
	assert.Equal(t, 1, res.Presentation.Slides[0].Number)
	assert.Equal(t, 2, res.Presentation.Slides[1].Number)
}

func TestPayloadRoundTrip(t *testing.T) {
	res, err := Normalize(TypeCaseStudy, `{"title":"Ethics","case":"A student finds a wallet.","questions":["What should they do?"]}`)
	require.NoError(t, err)

	payload, err := res.Payload()
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Ethics","case":"A student finds a wallet.","questions":["What should they do?"]}`, string(payload))
}

func TestFlattenTextStableOrder(t *testing.T) {
	v := map[string]interface{}{
		"title": "Rome",
		"slides": []interface{}{
			map[string]interface{}{"title": "Founding", "number": float64(1)},
		},
	}

	out := FlattenText(v)
	assert.Contains(t, out, "Rome")
	assert.Contains(t, out, "Founding")
	// Repeated runs produce identical documents.
	assert.Equal(t, out, FlattenText(v))
}

func TestStripCodeFencesVariants(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences(`{"a":1}`))
}
