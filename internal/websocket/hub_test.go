package websocket

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeChange(t *testing.T, userId, origin uuid.UUID) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"user_id": userId.String(),
		"origin":  origin.String(),
	})
	require.NoError(t, err)
	return payload
}

func TestDecodeRemoteChangeSkipsOwnPublishes(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	userId := uuid.New()

	_, ok := hub.decodeRemoteChange(encodeChange(t, userId, hub.instanceId))
	assert.False(t, ok)
}

func TestDecodeRemoteChangeDispatchesForeignPublishes(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	userId := uuid.New()

	uid, ok := hub.decodeRemoteChange(encodeChange(t, userId, uuid.New()))
	require.True(t, ok)
	assert.Equal(t, userId, uid)
}

func TestDecodeRemoteChangeRejectsGarbage(t *testing.T) {
	hub := NewHub(nil, nil, nil)

	_, ok := hub.decodeRemoteChange([]byte("not-json"))
	assert.False(t, ok)

	_, ok = hub.decodeRemoteChange(encodeChange(t, uuid.Nil, uuid.New()))
	assert.True(t, ok) // nil user id still parses; dispatch finds no clients
}
