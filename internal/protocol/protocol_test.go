package protocol

import (
	"encoding/json"
	"testing"

	"promised-land/internal/game"
	"promised-land/internal/hex"
)

func TestActionRoundTrip(t *testing.T) {
	move := game.MoveUnit{UnitID: "u1", Target: hex.Coord{Q: 2, R: -1, S: -1}}

	payload, err := EncodeAction(move)
	if err != nil {
		t.Fatalf("EncodeAction: %v", err)
	}
	if payload.Kind != game.ActionMoveUnit {
		t.Errorf("kind = %q, want %q", payload.Kind, game.ActionMoveUnit)
	}

	decoded, err := DecodeAction(payload)
	if err != nil {
		t.Fatalf("DecodeAction: %v", err)
	}
	got, ok := decoded.(game.MoveUnit)
	if !ok {
		t.Fatalf("decoded type = %T, want game.MoveUnit value", decoded)
	}
	if got != move {
		t.Errorf("decoded = %+v, want %+v", got, move)
	}
}

func TestActionRoundTripThroughEnvelope(t *testing.T) {
	attack := game.AttackUnit{AttackerID: "a", TargetID: "b"}

	payload, err := EncodeAction(attack)
	if err != nil {
		t.Fatalf("EncodeAction: %v", err)
	}
	msg, err := NewMessage(TypeAction, payload)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	// Simulate the wire.
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	var received Message
	if err := json.Unmarshal(data, &received); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if received.Type != TypeAction {
		t.Errorf("type = %q, want %q", received.Type, TypeAction)
	}

	var actionPayload ActionPayload
	if err := received.ParsePayload(&actionPayload); err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	decoded, err := DecodeAction(&actionPayload)
	if err != nil {
		t.Fatalf("DecodeAction: %v", err)
	}
	if decoded.(game.AttackUnit) != attack {
		t.Errorf("decoded = %+v, want %+v", decoded, attack)
	}
}

func TestDecodeActionUnknownKind(t *testing.T) {
	payload := &ActionPayload{Kind: "teleport", Data: json.RawMessage(`{}`)}
	if _, err := DecodeAction(payload); err == nil {
		t.Fatal("expected error for unknown action kind")
	}
}

func TestNewMessageAssignsIDAndTimestamp(t *testing.T) {
	msg, err := NewMessage(TypePing, struct{}{})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.ID == "" {
		t.Error("message ID is empty")
	}
	if msg.Timestamp == 0 {
		t.Error("message timestamp is zero")
	}
}
