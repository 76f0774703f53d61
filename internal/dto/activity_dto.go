// FILE: internal/dto/activity_dto.go
package dto

import "time"

// ActivityMessage is pushed over the websocket for domain events the user
// should see (subscription changes, account events).
type ActivityMessage struct {
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
