package prompt

import (
	"fmt"
	"strings"

	"edugen-be/pkg/content"
)

// Request carries the form fields a teacher filled in. Each content type
// reads the subset it needs; the rest stay empty.
type Request struct {
	Topic         string
	Grade         string
	Pages         int
	QuestionTypes []string

	ClassName   string
	Subjects    []string
	StartDate   string
	EndDate     string
	TeacherName string
	Discipline  string
	Weekdays    []string

	PresentationStyle string

	SourceText string
}

// Build produces the full prompt for a content type, instructing the model
// to answer with nothing but the JSON object the normalizer expects.
func Build(contentType string, req *Request) (string, error) {
	var b strings.Builder

	switch contentType {
	case content.TypeActivity:
		writeActivity(&b, req)
	case content.TypeLessonPlan:
		writeLessonPlan(&b, req)
	case content.TypePlanningAssistant:
		writePlanningAssistant(&b, req)
	case content.TypeCaseStudy:
		writeCaseStudy(&b, req)
	case content.TypePresentation:
		writePresentation(&b, req)
	case content.TypeSummary:
		writeSummary(&b, req)
	default:
		return "", fmt.Errorf("unknown content type: %s", contentType)
	}

	writeOutputContract(&b)
	return b.String(), nil
}

func writeActivity(b *strings.Builder, req *Request) {
	b.WriteString("<task>\n")
	b.WriteString("You are an experienced teacher preparing a student activity sheet.\n")
	fmt.Fprintf(b, "Create an activity about %q", req.Topic)
	if req.Grade != "" {
		fmt.Fprintf(b, " for grade %s", req.Grade)
	}
	b.WriteString(".\n")
	if req.Pages > 0 {
		fmt.Fprintf(b, "The activity should fill roughly %d page(s).\n", req.Pages)
	}
	if len(req.QuestionTypes) > 0 {
		fmt.Fprintf(b, "Use only these question types: %s.\n", strings.Join(req.QuestionTypes, ", "))
	}
	b.WriteString("</task>\n\n")

	b.WriteString("<schema>\n")
	b.WriteString(`{"title": "...", "questions": [{"number": 1, "type": "multipleChoice|open|trueFalse", "text": "...", "options": ["..."], "answer": "..."}]}`)
	b.WriteString("\n</schema>\n\n")
}

func writeLessonPlan(b *strings.Builder, req *Request) {
	b.WriteString("<task>\n")
	b.WriteString("You are an experienced teacher writing a lesson plan.\n")
	fmt.Fprintf(b, "Plan a lesson about %q", req.Topic)
	if req.Grade != "" {
		fmt.Fprintf(b, " for grade %s", req.Grade)
	}
	b.WriteString(".\n")
	b.WriteString("Include learning objectives, required materials, the development of the lesson and how it will be assessed.\n")
	b.WriteString("</task>\n\n")

	b.WriteString("<schema>\n")
	b.WriteString(`{"topic": "...", "grade": "...", "objectives": ["..."], "materials": ["..."], "development": "...", "assessment": "..."}`)
	b.WriteString("\n</schema>\n\n")
}

func writePlanningAssistant(b *strings.Builder, req *Request) {
	b.WriteString("<task>\n")
	b.WriteString("You are a planning assistant building a teaching schedule.\n")
	if req.ClassName != "" {
		fmt.Fprintf(b, "Class: %s.\n", req.ClassName)
	}
	if req.TeacherName != "" {
		fmt.Fprintf(b, "Teacher: %s.\n", req.TeacherName)
	}
	if req.Discipline != "" {
		fmt.Fprintf(b, "Discipline: %s.\n", req.Discipline)
	}
	if len(req.Subjects) > 0 {
		fmt.Fprintf(b, "Subjects to cover: %s.\n", strings.Join(req.Subjects, ", "))
	}
	if req.StartDate != "" && req.EndDate != "" {
		fmt.Fprintf(b, "Schedule classes from %s to %s", req.StartDate, req.EndDate)
		if len(req.Weekdays) > 0 {
			fmt.Fprintf(b, ", only on: %s", strings.Join(req.Weekdays, ", "))
		}
		b.WriteString(".\n")
	}
	b.WriteString("Distribute the subjects evenly across the available dates.\n")
	b.WriteString("</task>\n\n")

	b.WriteString("<schema>\n")
	b.WriteString(`{"class_name": "...", "schedule": [{"date": "YYYY-MM-DD", "weekday": "...", "subject": "...", "topic": "...", "activity": "..."}]}`)
	b.WriteString("\n</schema>\n\n")
}

func writeCaseStudy(b *strings.Builder, req *Request) {
	b.WriteString("<task>\n")
	b.WriteString("You are an experienced teacher writing a case study for classroom discussion.\n")
	fmt.Fprintf(b, "Write a realistic case study about %q", req.Topic)
	if req.Grade != "" {
		fmt.Fprintf(b, " appropriate for grade %s", req.Grade)
	}
	b.WriteString(", followed by discussion questions.\n")
	b.WriteString("</task>\n\n")

	b.WriteString("<schema>\n")
	b.WriteString(`{"title": "...", "case": "...", "questions": ["..."]}`)
	b.WriteString("\n</schema>\n\n")
}

func writePresentation(b *strings.Builder, req *Request) {
	b.WriteString("<task>\n")
	b.WriteString("You are an experienced teacher preparing a slide deck.\n")
	fmt.Fprintf(b, "Outline a presentation about %q", req.Topic)
	if req.Grade != "" {
		fmt.Fprintf(b, " for grade %s", req.Grade)
	}
	b.WriteString(".\n")
	if req.PresentationStyle != "" {
		fmt.Fprintf(b, "Presentation style: %s.\n", req.PresentationStyle)
	}
	if req.Pages > 0 {
		fmt.Fprintf(b, "Produce about %d slides.\n", req.Pages)
	}
	b.WriteString("</task>\n\n")

	b.WriteString("<schema>\n")
	b.WriteString(`{"title": "...", "slides": [{"number": 1, "title": "...", "bullets": ["..."], "notes": "..."}]}`)
	b.WriteString("\n</schema>\n\n")
}

func writeSummary(b *strings.Builder, req *Request) {
	b.WriteString("<task>\n")
	b.WriteString("You are an experienced teacher summarizing material for students.\n")
	if req.SourceText != "" {
		b.WriteString("Summarize the following material:\n")
		b.WriteString("<material>\n")
		b.WriteString(req.SourceText)
		b.WriteString("\n</material>\n")
	} else {
		fmt.Fprintf(b, "Write a study summary about %q", req.Topic)
		if req.Grade != "" {
			fmt.Fprintf(b, " for grade %s", req.Grade)
		}
		b.WriteString(".\n")
	}
	b.WriteString("</task>\n\n")

	b.WriteString("<schema>\n")
	b.WriteString(`{"content": "..."}`)
	b.WriteString("\n</schema>\n\n")
}

func writeOutputContract(b *strings.Builder) {
	b.WriteString("<output>\n")
	b.WriteString("Respond with a single JSON object matching the schema above.\n")
	b.WriteString("Do not wrap it in markdown code fences.\n")
	b.WriteString("Do not add any text before or after the JSON.\n")
	b.WriteString("</output>\n")
}
