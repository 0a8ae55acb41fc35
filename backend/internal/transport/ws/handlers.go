package ws

import (
	"fmt"

	"x-lanes/backend/internal/input"
)

// registerHandlers регистрирует обработчики входящих сообщений.
// Обработчики кормят агрегатор ввода и никогда не трогают симуляцию
// напрямую: всё, что видит игра, проходит через Frame() раз в тик.
func (s *WSServer) registerHandlers() {
	s.handlers[MessageTypeKeyDown] = func(conn *SafeWriter, message interface{}) error {
		msg, ok := message.(*KeyMessage)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", MessageTypeKeyDown)
		}
		s.agg.HandleKeyDown(msg.Key)
		return nil
	}

	s.handlers[MessageTypeKeyUp] = func(conn *SafeWriter, message interface{}) error {
		msg, ok := message.(*KeyMessage)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", MessageTypeKeyUp)
		}
		s.agg.HandleKeyUp(msg.Key)
		return nil
	}

	s.handlers[MessageTypeSwipe] = func(conn *SafeWriter, message interface{}) error {
		msg, ok := message.(*SwipeMessage)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", MessageTypeSwipe)
		}
		s.agg.HandleSwipe(msg.Direction)
		return nil
	}

	s.handlers[MessageTypeJoystick] = func(conn *SafeWriter, message interface{}) error {
		msg, ok := message.(*JoystickMessage)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", MessageTypeJoystick)
		}
		s.agg.HandleJoystick(input.JoystickSample{
			Active: msg.Active,
			Angle:  msg.Angle,
			X:      msg.X,
			Y:      msg.Y,
		})
		return nil
	}

	s.handlers[MessageTypePing] = func(conn *SafeWriter, message interface{}) error {
		msg, ok := message.(*PingMessage)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", MessageTypePing)
		}
		return conn.WriteJSON(NewPongMessage(msg.ClientTime))
	}
}
