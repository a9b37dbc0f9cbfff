package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage is a journey event pushed to connected participants
type WSMessage struct {
	Type      string `json:"type"`
	JourneyID int64  `json:"journey_id,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Message   string `json:"message,omitempty"`
}

// WSHub manages WebSocket connections, one per user
type WSHub struct {
	mu          sync.RWMutex
	connections map[int64]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[int64]*websocket.Conn),
	}
}

// Register registers a connection for a user, replacing any existing one
func (h *WSHub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Int64("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes and closes a user's connection
func (h *WSHub) Unregister(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[userID]; ok {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Int64("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// SendToUser sends a message to a specific user. A write failure drops the
// connection.
func (h *WSHub) SendToUser(userID int64, message WSMessage) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %d is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// IsOnline checks if a user has a registered connection
func (h *WSHub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// NotifyJourneyEvent fans a journey event out to the given users.
// Offline users are skipped silently.
func (h *WSHub) NotifyJourneyEvent(eventType string, journeyID int64, userIDs []int64) {
	message := WSMessage{
		Type:      eventType,
		JourneyID: journeyID,
		Timestamp: time.Now().UnixMilli(),
	}
	for _, userID := range userIDs {
		if !h.IsOnline(userID) {
			continue
		}
		if err := h.SendToUser(userID, message); err != nil {
			log.Error().
				Err(err).
				Int64("user_id", userID).
				Str("event", eventType).
				Msg("Failed to send journey event")
		}
	}
}
