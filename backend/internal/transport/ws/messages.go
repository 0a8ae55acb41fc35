package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Константы для WebSocket сообщений
const (
	// Входящие типы сообщений
	MessageTypeKeyDown  = "key_down" // Нажатие клавиши
	MessageTypeKeyUp    = "key_up"   // Отпускание клавиши
	MessageTypeSwipe    = "swipe"    // Свайп на сенсорном экране
	MessageTypeJoystick = "joystick" // Снимок виртуального джойстика
	MessageTypePing     = "ping"     // Пинг для измерения задержки

	// Исходящие типы сообщений
	MessageTypeCreate    = "create"     // Создание объекта сцены
	MessageTypeUpdate    = "update"     // Пакет обновлений позиций
	MessageTypePong      = "pong"       // Ответ на пинг
	MessageTypeInfo      = "info"       // Информационное сообщение
	MessageTypeLaneEvent = "lane_event" // Событие дорожки
)

// KeyMessage нажатие или отпускание клавиши
type KeyMessage struct {
	Type       string  `json:"type"`
	Key        string  `json:"key"`
	ClientTime float64 `json:"client_time,omitempty"`
}

// SwipeMessage свайп с четырехсторонней классификацией
type SwipeMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
}

// JoystickMessage снимок виртуального джойстика
type JoystickMessage struct {
	Type   string  `json:"type"`
	Active bool    `json:"active"`
	Angle  float64 `json:"angle"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// PingMessage пинг от клиента
type PingMessage struct {
	Type       string  `json:"type"`
	ClientTime float64 `json:"client_time"`
}

// CreateMessage описание объекта сцены для клиента
type CreateMessage struct {
	Type       string  `json:"type"`
	ID         string  `json:"id"`
	ObjectType string  `json:"object_type"`
	Color      string  `json:"color,omitempty"`
	Mesh       string  `json:"mesh,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Mass       float64 `json:"mass,omitempty"`
	Radius     float64 `json:"radius,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Depth      float64 `json:"depth,omitempty"`
	ServerTime int64   `json:"server_time"`
}

// ObjectUpdate позиция и ориентация одного объекта
type ObjectUpdate struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	QX float64 `json:"qx"`
	QY float64 `json:"qy"`
	QZ float64 `json:"qz"`
	QW float64 `json:"qw"`
}

// UpdateMessage пакет обновлений всех подвижных объектов
type UpdateMessage struct {
	Type       string         `json:"type"`
	ServerTime int64          `json:"server_time"`
	Objects    []ObjectUpdate `json:"objects"`
}

// PongMessage ответ на пинг
type PongMessage struct {
	Type       string  `json:"type"`
	ClientTime float64 `json:"client_time"`
	ServerTime int64   `json:"server_time"`
}

// InfoMessage информационное сообщение для клиента
type InfoMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// LaneEventMessage событие дорожки для клиента
type LaneEventMessage struct {
	Type       string      `json:"type"`
	Event      interface{} `json:"event"`
	ServerTime int64       `json:"server_time"`
}

// GetCurrentServerTime возвращает текущее серверное время в миллисекундах
func GetCurrentServerTime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// ParseMessage разбирает входящее сообщение в соответствующий тип
func ParseMessage(data []byte) (interface{}, error) {
	var baseMessage struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &baseMessage); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	switch baseMessage.Type {
	case MessageTypeKeyDown, MessageTypeKeyUp:
		var msg KeyMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing key message: %w", err)
		}
		return &msg, nil

	case MessageTypeSwipe:
		var msg SwipeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing swipe message: %w", err)
		}
		return &msg, nil

	case MessageTypeJoystick:
		var msg JoystickMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing joystick message: %w", err)
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, errors.New("unknown message type: " + baseMessage.Type)
	}
}

// GetMessageType возвращает тип сообщения на основе входных данных
func GetMessageType(data []byte) (string, error) {
	var baseMessage struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &baseMessage); err != nil {
		return "", err
	}

	return baseMessage.Type, nil
}

// NewPongMessage создает новое сообщение-ответ на пинг
func NewPongMessage(clientTime float64) *PongMessage {
	return &PongMessage{
		Type:       MessageTypePong,
		ClientTime: clientTime,
		ServerTime: GetCurrentServerTime(),
	}
}

// NewInfoMessage создает новое информационное сообщение
func NewInfoMessage(message string) *InfoMessage {
	return &InfoMessage{
		Type:    MessageTypeInfo,
		Message: message,
	}
}

// NewUpdateMessage создает новый пакет обновлений
func NewUpdateMessage(objects []ObjectUpdate) *UpdateMessage {
	return &UpdateMessage{
		Type:       MessageTypeUpdate,
		ServerTime: GetCurrentServerTime(),
		Objects:    objects,
	}
}

// NewLaneEventMessage создает новое сообщение о событии дорожки
func NewLaneEventMessage(event interface{}) *LaneEventMessage {
	return &LaneEventMessage{
		Type:       MessageTypeLaneEvent,
		Event:      event,
		ServerTime: GetCurrentServerTime(),
	}
}
