// FILE: internal/dto/usage_dto.go
// DTOs for usage limits and status checking
package dto

import (
	"time"

	"github.com/google/uuid"
)

// UsageLimit represents a single limit status
type UsageLimit struct {
	Used     int        `json:"used"`
	Limit    int        `json:"limit"` // -1 = unlimited, 0 = disabled
	CanUse   bool       `json:"can_use"`
	ResetsAt *time.Time `json:"resets_at,omitempty"` // For daily limits
}

// StorageLimits for cumulative resources
type StorageLimits struct {
	Folders UsageLimit `json:"folders"`
}

// DailyLimits for usage that resets daily
type DailyLimits struct {
	Generations UsageLimit `json:"generations"`
}

// UsageStatusResponse is returned by GET /api/user/usage-status
type UsageStatusResponse struct {
	Plan             PlanInfo      `json:"plan"`
	Storage          StorageLimits `json:"storage"`
	Daily            DailyLimits   `json:"daily"`
	UpgradeAvailable bool          `json:"upgrade_available"`
}

type PlanInfo struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// PlanWithFeaturesResponse is returned by GET /api/plans (public)
type PlanWithFeaturesResponse struct {
	Id            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Tagline       string        `json:"tagline"`
	Price         float64       `json:"price"`
	BillingPeriod string        `json:"billing_period"`
	IsMostPopular bool          `json:"is_most_popular"`
	Limits        PlanLimitsDTO `json:"limits"`
	Features      []FeatureDTO  `json:"features"`
}

type PlanLimitsDTO struct {
	MaxFolders      int `json:"max_folders"`
	GenerationDaily int `json:"generation_daily"`
}

type FeatureDTO struct {
	Key       string `json:"key"`
	Text      string `json:"text"`
	IsEnabled bool   `json:"is_enabled"`
}

// LimitType constants for error handling
const (
	LimitTypeFolders     = "folders"
	LimitTypeGenerations = "generations"
)

// LimitExceededError is a custom error that carries usage details
type LimitExceededError struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

func (e *LimitExceededError) Error() string {
	return "usage limit exceeded"
}

// LimitExceededData is the data payload for 429 responses
type LimitExceededData struct {
	Limit            int       `json:"limit"`
	Used             int       `json:"used"`
	ResetAfter       time.Time `json:"reset_after"`
	ShowModalPricing bool      `json:"show_modal_pricing"`
}
