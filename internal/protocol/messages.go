// Package protocol defines the network message types for client-server communication.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the type of message.
type MessageType string

// Authentication message types
const (
	TypeAuthenticate MessageType = "authenticate"
	TypeAuthResult   MessageType = "auth_result"
)

// Lobby message types
const (
	TypeCreateGame   MessageType = "create_game"
	TypeGameCreated  MessageType = "game_created"
	TypeJoinGame     MessageType = "join_game"
	TypeJoinByCode   MessageType = "join_by_code"
	TypeJoinedGame   MessageType = "joined_game"
	TypeLeaveGame    MessageType = "leave_game"
	TypeDeleteGame   MessageType = "delete_game"
	TypeGameDeleted  MessageType = "game_deleted"
	TypePickFaction  MessageType = "pick_faction"
	TypePlayerReady  MessageType = "player_ready"
	TypeStartGame    MessageType = "start_game"
	TypeListGames    MessageType = "list_games"
	TypeGameList     MessageType = "game_list"
	TypeYourGames    MessageType = "your_games"
	TypeLobbyState   MessageType = "lobby_state"
	TypePlayerJoined MessageType = "player_joined"
	TypePlayerLeft   MessageType = "player_left"
)

// Game flow message types
const (
	TypeGameStarted  MessageType = "game_started"
	TypeTurnChanged  MessageType = "turn_changed"
	TypeAction       MessageType = "action"
	TypeActionResult MessageType = "action_result"
	TypeGameState    MessageType = "game_state"
	TypeGameEnded    MessageType = "game_ended"
	TypeGameHistory  MessageType = "game_history"
)

// System message types
const (
	TypeWelcome    MessageType = "welcome"
	TypeError      MessageType = "error"
	TypeReconnect  MessageType = "reconnect"
	TypeDisconnect MessageType = "disconnect"
	TypePing       MessageType = "ping"
	TypePong       MessageType = "pong"
)

// Message is the envelope for all messages.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   data,
	}, nil
}

// ParsePayload unmarshals the payload into the given type.
func (m *Message) ParsePayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// ErrorCode represents an error type.
type ErrorCode string

const (
	ErrCodeInvalidAction         ErrorCode = "invalid_action"
	ErrCodeNotYourTurn           ErrorCode = "not_your_turn"
	ErrCodeInvalidTarget         ErrorCode = "invalid_target"
	ErrCodeInsufficientResources ErrorCode = "insufficient_resources"
	ErrCodeCannotReach           ErrorCode = "cannot_reach"
	ErrCodeGameNotFound          ErrorCode = "game_not_found"
	ErrCodeGameOver              ErrorCode = "game_over"
	ErrCodeLobbyFull             ErrorCode = "lobby_full"
	ErrCodeNotAuthenticated      ErrorCode = "not_authenticated"
	ErrCodeRateLimited           ErrorCode = "rate_limited"
	ErrCodeInternalError         ErrorCode = "internal_error"
)

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
