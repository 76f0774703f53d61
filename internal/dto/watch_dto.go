package dto

import "github.com/google/uuid"

// Watch channel protocol. The client sends commands, the server replies with
// snapshots of the subscribed scope.

type WatchCommand struct {
	Action   string     `json:"action"` // "subscribe" | "unsubscribe"
	ParentId *uuid.UUID `json:"parent_id"`       // nil = root level
	All      bool       `json:"all"`             // whole tree instead of one level
}

type WatchSnapshot struct {
	Type        string            `json:"type"` // "snapshot"
	ParentId    *uuid.UUID        `json:"parent_id,omitempty"`
	All         bool              `json:"all,omitempty"`
	Folders     []*FolderItem     `json:"folders"`
	Generations []*GenerationItem `json:"generations"`
}

type WatchAck struct {
	Type   string `json:"type"` // "subscribed" | "unsubscribed" | "error"
	Detail string `json:"detail,omitempty"`
}
