// FILE: internal/service/activity_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edugen-be/internal/dto"
	"edugen-be/internal/pkg/logger"
	"edugen-be/pkg/events"
	pktNats "edugen-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
)

// ActivityDelivery pushes activity messages in real time.
// Implemented by the websocket Hub.
type ActivityDelivery interface {
	Send(userID uuid.UUID, message dto.ActivityMessage)
	Broadcast(message dto.ActivityMessage)
}

// ActivityService consumes domain events from NATS and turns them into
// user-facing activity messages.
type ActivityService struct {
	subscriber *pktNats.Subscriber
	delivery   ActivityDelivery
	logger     logger.ILogger
}

func NewActivityService(sub *pktNats.Subscriber, delivery ActivityDelivery, log logger.ILogger) *ActivityService {
	return &ActivityService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *ActivityService) Start() {
	err := s.subscriber.Subscribe("events.>", "activity-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("ActivityService", "Failed to start activity subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("ActivityService", "Activity service started, listening to events.>", nil)
}

func (s *ActivityService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	msg, broadcast := s.buildMessage(typeCode, event)
	if msg == nil {
		return nil
	}
	if s.delivery == nil {
		return nil
	}

	if broadcast {
		s.delivery.Broadcast(*msg)
		return nil
	}

	userId, ok := ownerOf(event)
	if !ok {
		s.logger.Warn("ActivityService", "Event has no user_id, dropping", map[string]interface{}{"type": typeCode})
		return nil
	}
	s.delivery.Send(userId, *msg)
	return nil
}

// buildMessage maps a domain event to an activity message. Unknown event
// types are ignored rather than erroring so the consumer never wedges.
func (s *ActivityService) buildMessage(typeCode string, event events.Event) (*dto.ActivityMessage, bool) {
	payload := event.Payload()

	switch typeCode {
	case "SUBSCRIPTION_CREATED":
		planName, _ := payload["plan_name"].(string)
		fullName, _ := payload["full_name"].(string)
		return &dto.ActivityMessage{
			Type:       typeCode,
			Title:      "New Subscriber!",
			Message:    fmt.Sprintf("%s just subscribed to %s!", fullName, planName),
			Metadata:   payload,
			OccurredAt: time.Now(),
		}, true

	case "FOLDER_DELETED":
		return &dto.ActivityMessage{
			Type:       typeCode,
			Title:      "Folder Deleted",
			Message:    "A folder and its contents were removed.",
			Metadata:   payload,
			OccurredAt: time.Now(),
		}, false

	case "GENERATION_SAVED":
		name, _ := payload["name"].(string)
		return &dto.ActivityMessage{
			Type:       typeCode,
			Title:      "Content Ready",
			Message:    fmt.Sprintf("%q was saved to your workspace.", name),
			Metadata:   payload,
			OccurredAt: time.Now(),
		}, false

	case "USER_DELETED":
		return nil, false

	default:
		return nil, false
	}
}

func ownerOf(event events.Event) (uuid.UUID, bool) {
	raw, ok := event.Payload()["user_id"]
	if !ok {
		return uuid.Nil, false
	}
	switch v := raw.(type) {
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	case uuid.UUID:
		return v, true
	}
	return uuid.Nil, false
}
