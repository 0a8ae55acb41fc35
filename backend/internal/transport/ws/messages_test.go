package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestGetCurrentServerTime(t *testing.T) {
	// Проверяем, что функция возвращает текущее время в миллисекундах
	now := time.Now().UnixNano() / int64(time.Millisecond)
	serverTime := GetCurrentServerTime()

	// Допускаем разницу в 100 мс
	if serverTime < now-100 || serverTime > now+100 {
		t.Errorf("GetCurrentServerTime() returned time too far from current time. Got %d, expected around %d", serverTime, now)
	}
}

func TestParseMessage_KeyDown(t *testing.T) {
	data := []byte(`{"type":"key_down","key":"w","client_time":123.5}`)

	parsed, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage returned error: %v", err)
	}

	msg, ok := parsed.(*KeyMessage)
	if !ok {
		t.Fatalf("Expected *KeyMessage, got %T", parsed)
	}
	if msg.Type != MessageTypeKeyDown {
		t.Errorf("Expected type %s, got %s", MessageTypeKeyDown, msg.Type)
	}
	if msg.Key != "w" {
		t.Errorf("Expected key w, got %s", msg.Key)
	}
	if msg.ClientTime != 123.5 {
		t.Errorf("Expected client_time 123.5, got %f", msg.ClientTime)
	}
}

func TestParseMessage_Swipe(t *testing.T) {
	data := []byte(`{"type":"swipe","direction":"up"}`)

	parsed, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage returned error: %v", err)
	}

	msg, ok := parsed.(*SwipeMessage)
	if !ok {
		t.Fatalf("Expected *SwipeMessage, got %T", parsed)
	}
	if msg.Direction != "up" {
		t.Errorf("Expected direction up, got %s", msg.Direction)
	}
}

func TestParseMessage_Joystick(t *testing.T) {
	data := []byte(`{"type":"joystick","active":true,"angle":1.57,"x":0.5,"y":-0.5}`)

	parsed, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage returned error: %v", err)
	}

	msg, ok := parsed.(*JoystickMessage)
	if !ok {
		t.Fatalf("Expected *JoystickMessage, got %T", parsed)
	}
	if !msg.Active {
		t.Error("Expected active joystick")
	}
	if msg.X != 0.5 || msg.Y != -0.5 {
		t.Errorf("Expected x=0.5 y=-0.5, got x=%f y=%f", msg.X, msg.Y)
	}
}

func TestParseMessage_Ping(t *testing.T) {
	data := []byte(`{"type":"ping","client_time":42}`)

	parsed, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage returned error: %v", err)
	}

	msg, ok := parsed.(*PingMessage)
	if !ok {
		t.Fatalf("Expected *PingMessage, got %T", parsed)
	}
	if msg.ClientTime != 42 {
		t.Errorf("Expected client_time 42, got %f", msg.ClientTime)
	}
}

func TestParseMessage_UnknownType(t *testing.T) {
	data := []byte(`{"type":"teleport_everything"}`)

	if _, err := ParseMessage(data); err == nil {
		t.Error("Expected error for unknown message type, got nil")
	}
}

func TestParseMessage_InvalidJSON(t *testing.T) {
	data := []byte(`{"type":`)

	if _, err := ParseMessage(data); err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestGetMessageType(t *testing.T) {
	data := []byte(`{"type":"key_up","key":"s"}`)

	msgType, err := GetMessageType(data)
	if err != nil {
		t.Fatalf("GetMessageType returned error: %v", err)
	}
	if msgType != MessageTypeKeyUp {
		t.Errorf("Expected type %s, got %s", MessageTypeKeyUp, msgType)
	}
}

func TestNewPongMessage(t *testing.T) {
	msg := NewPongMessage(77.5)

	if msg.Type != MessageTypePong {
		t.Errorf("Expected type %s, got %s", MessageTypePong, msg.Type)
	}
	if msg.ClientTime != 77.5 {
		t.Errorf("Expected client_time 77.5, got %f", msg.ClientTime)
	}
	if msg.ServerTime == 0 {
		t.Error("Expected non-zero server_time")
	}
}

func TestNewUpdateMessage_Serialization(t *testing.T) {
	msg := NewUpdateMessage([]ObjectUpdate{
		{ID: "ball", X: 1, Y: 0.5, Z: 2, QW: 1},
	})

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded UpdateMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Type != MessageTypeUpdate {
		t.Errorf("Expected type %s, got %s", MessageTypeUpdate, decoded.Type)
	}
	if len(decoded.Objects) != 1 || decoded.Objects[0].ID != "ball" {
		t.Errorf("Unexpected objects payload: %+v", decoded.Objects)
	}
}
