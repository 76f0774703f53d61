package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize parses a raw model response into the typed result for the given
// content type. Markdown code fences around the JSON are tolerated. A payload
// that does not decode, or that is missing its required fields, is a
// permanent error; callers must not retry it.
func Normalize(contentType, raw string) (*Result, error) {
	if !IsValidType(contentType) {
		return nil, fmt.Errorf("unknown content type: %s", contentType)
	}

	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response payload")
	}

	result := &Result{Type: contentType}

	switch contentType {
	case TypeActivity:
		var v Activity
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			return nil, fmt.Errorf("decode activity payload: %w", err)
		}
		if len(v.Questions) == 0 {
			return nil, fmt.Errorf("activity payload has no questions")
		}
		for i, q := range v.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return nil, fmt.Errorf("activity question %d has no text", i+1)
			}
			if q.Number == 0 {
				v.Questions[i].Number = i + 1
			}
		}
		result.Activity = &v

	case TypeLessonPlan:
		var v LessonPlan
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			return nil, fmt.Errorf("decode lesson plan payload: %w", err)
		}
		if strings.TrimSpace(v.Topic) == "" {
			return nil, fmt.Errorf("lesson plan payload has no topic")
		}
		if len(v.Objectives) == 0 {
			return nil, fmt.Errorf("lesson plan payload has no objectives")
		}
		result.LessonPlan = &v

	case TypePlanningAssistant:
		var v PlanningAssistant
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			return nil, fmt.Errorf("decode schedule payload: %w", err)
		}
		if len(v.Schedule) == 0 {
			return nil, fmt.Errorf("schedule payload has no entries")
		}
		for i, e := range v.Schedule {
			if strings.TrimSpace(e.Date) == "" {
				return nil, fmt.Errorf("schedule entry %d has no date", i+1)
			}
		}
		result.PlanningAssistant = &v

	case TypeCaseStudy:
		var v CaseStudy
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			return nil, fmt.Errorf("decode case study payload: %w", err)
		}
		if strings.TrimSpace(v.Case) == "" {
			return nil, fmt.Errorf("case study payload has no case text")
		}
		result.CaseStudy = &v

	case TypePresentation:
		var v Presentation
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			return nil, fmt.Errorf("decode presentation payload: %w", err)
		}
		if len(v.Slides) == 0 {
			return nil, fmt.Errorf("presentation payload has no slides")
		}
		for i, s := range v.Slides {
			if s.Number == 0 {
				v.Slides[i].Number = i + 1
			}
		}
		result.Presentation = &v

	case TypeSummary:
		var v Summary
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			// Summary models sometimes answer with plain prose instead of the
			// requested JSON object. Accept it as the content directly.
			v = Summary{Content: cleaned}
		}
		if strings.TrimSpace(v.Content) == "" {
			return nil, fmt.Errorf("summary payload has no content")
		}
		result.Summary = &v
	}

	return result, nil
}

// Payload serializes the active variant back to canonical JSON.
func (r *Result) Payload() (json.RawMessage, error) {
	var v any
	switch r.Type {
	case TypeActivity:
		v = r.Activity
	case TypeLessonPlan:
		v = r.LessonPlan
	case TypePlanningAssistant:
		v = r.PlanningAssistant
	case TypeCaseStudy:
		v = r.CaseStudy
	case TypePresentation:
		v = r.Presentation
	case TypeSummary:
		v = r.Summary
	default:
		return nil, fmt.Errorf("unknown content type: %s", r.Type)
	}
	return json.Marshal(v)
}

// StripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, and trims whitespace.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		first := strings.TrimSpace(s[:idx])
		if first == "" || len(first) <= 10 && !strings.ContainsAny(first, "{}[]") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
