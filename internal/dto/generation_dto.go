package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenerateContentRequest carries every per-type field; the prompt builder
// picks the ones its content type uses.
type GenerateContentRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=activity lessonPlan planningAssistant caseStudy presentation summary"`

	Topic         string   `json:"topic"`
	Grade         string   `json:"grade"`
	Pages         int      `json:"pages"`
	QuestionTypes []string `json:"question_types"`

	ClassName   string   `json:"class_name"`
	Subjects    []string `json:"subjects"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	TeacherName string   `json:"teacher_name"`
	Discipline  string   `json:"discipline"`
	Weekdays    []string `json:"weekdays"`

	PresentationStyle string `json:"presentation_style"`

	SourceText string `json:"source_text"` // summary input
}

type GenerateContentResponse struct {
	ContentType string          `json:"content_type"`
	Content     json.RawMessage `json:"content"`
}

type SaveGenerationRequest struct {
	Name        string          `json:"name" validate:"required"`
	FolderId    *uuid.UUID      `json:"folder_id"` // nil = root level
	ContentType string          `json:"content_type" validate:"required,oneof=activity lessonPlan planningAssistant caseStudy presentation summary"`
	Content     json.RawMessage `json:"content" validate:"required"`
}

type SaveGenerationResponse struct {
	Id uuid.UUID `json:"id"`
}

type GenerationItem struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ContentType string     `json:"content_type"`
	FolderId    *uuid.UUID `json:"folder_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type ShowGenerationResponse struct {
	Id          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	ContentType string          `json:"content_type"`
	Content     json.RawMessage `json:"content"`
	FolderId    *uuid.UUID      `json:"folder_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`
}

type RenameGenerationRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"required"`
}

type RenameGenerationResponse struct {
	Id uuid.UUID `json:"id"`
}

type MoveGenerationRequest struct {
	Id       uuid.UUID
	FolderId *uuid.UUID `json:"folder_id"` // nil moves to root
}

type MoveGenerationResponse struct {
	Id uuid.UUID `json:"id"`
}

type DuplicateGenerationResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SearchGenerationResponse struct {
	Id             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	ContentType    string     `json:"content_type"`
	FolderId       *uuid.UUID `json:"folder_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	SearchType     string     `json:"search_type,omitempty"`     // "literal" | "semantic"
	RelevanceScore *float64   `json:"relevance_score,omitempty"` // 0.0-1.0, only for semantic search
}

// PublishEmbedGenerationMessage is the payload queued for the embedding
// consumer after a generation is saved or updated.
type PublishEmbedGenerationMessage struct {
	GenerationId uuid.UUID `json:"generation_id"`
}
