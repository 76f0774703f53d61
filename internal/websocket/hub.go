package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"edugen-be/internal/dto"
	"edugen-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const hierarchyChannel = "hierarchy_events"

// Snapshotter builds the {folders, generations} view the watch channel sends
// on subscribe and after every hierarchy change.
type Snapshotter interface {
	BuildSnapshot(ctx context.Context, userId uuid.UUID, parentId *uuid.UUID, all bool) (*dto.WatchSnapshot, error)
}

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	snapshotter Snapshotter

	logger logger.ILogger

	// Identifies this instance on the Redis channel so it can ignore its own
	// publishes. Local clients already got their snapshot directly.
	instanceId uuid.UUID
}

func NewHub(rdb *redis.Client, snapshotter Snapshotter, log logger.ILogger) *Hub {
	return &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		clients:     make(map[uuid.UUID][]*Client),
		rdb:         rdb,
		snapshotter: snapshotter,
		logger:      log,
		instanceId:  uuid.New(),
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyHierarchyChanged pushes fresh snapshots to every local subscriber of
// the user and fans the change out to other instances over Redis.
func (h *Hub) NotifyHierarchyChanged(ctx context.Context, userId uuid.UUID) {
	h.dispatchLocal(ctx, userId)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"user_id": userId.String(),
			"origin":  h.instanceId.String(),
		})
		h.rdb.Publish(context.Background(), hierarchyChannel, payload)
	}
}

// dispatchLocal re-snapshots every locally connected, subscribed client of
// the user.
func (h *Hub) dispatchLocal(ctx context.Context, userId uuid.UUID) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[userId]...)
	h.mu.RUnlock()

	for _, client := range clients {
		sub := client.subscription()
		if sub == nil {
			continue
		}
		h.sendSnapshot(ctx, client, sub)
	}
}

// Send pushes an activity payload to every connected device of one user.
// Unlike snapshots, activity messages go out regardless of watch subscription.
func (h *Hub) Send(userId uuid.UUID, message dto.ActivityMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[userId]...)
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// Broadcast pushes an activity payload to every connected client.
func (h *Hub) Broadcast(message dto.ActivityMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	h.mu.RLock()
	var all []*Client
	for _, clients := range h.clients {
		all = append(all, clients...)
	}
	h.mu.RUnlock()

	for _, client := range all {
		select {
		case client.Send <- data:
		default:
		}
	}
}

func (h *Hub) sendSnapshot(ctx context.Context, client *Client, sub *subscription) {
	snapshot, err := h.snapshotter.BuildSnapshot(ctx, client.UserID, sub.parentId, sub.all)
	if err != nil {
		h.logger.Error("Hub", "Failed to build snapshot", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}

	select {
	case client.Send <- data:
	default:
		h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"user_id": client.UserID})
		h.unregister <- client
	}
}

// handleCommand processes a subscribe/unsubscribe from the client and
// acknowledges it. Subscribe answers with an immediate snapshot.
func (h *Hub) handleCommand(ctx context.Context, client *Client, cmd *dto.WatchCommand) {
	switch cmd.Action {
	case "subscribe":
		sub := &subscription{parentId: cmd.ParentId, all: cmd.All}
		client.setSubscription(sub)
		client.sendJSON(dto.WatchAck{Type: "subscribed"})
		h.sendSnapshot(ctx, client, sub)

	case "unsubscribe":
		client.setSubscription(nil)
		client.sendJSON(dto.WatchAck{Type: "unsubscribed"})

	default:
		client.sendJSON(dto.WatchAck{Type: "error", Detail: "unknown action: " + cmd.Action})
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, hierarchyChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		uid, ok := h.decodeRemoteChange([]byte(msg.Payload))
		if !ok {
			continue
		}
		h.dispatchLocal(ctx, uid)
	}
}

// decodeRemoteChange parses a hierarchy change notice from Redis and reports
// whether it warrants a local dispatch. Notices published by this instance
// are skipped.
func (h *Hub) decodeRemoteChange(payload []byte) (uuid.UUID, bool) {
	var notice struct {
		UserID string `json:"user_id"`
		Origin string `json:"origin"`
	}
	if err := json.Unmarshal(payload, &notice); err != nil {
		log.Printf("Redis msg parse error: %v", err)
		return uuid.Nil, false
	}

	if notice.Origin == h.instanceId.String() {
		return uuid.Nil, false
	}

	uid, err := uuid.Parse(notice.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return uid, true
}
