package game

import (
	"errors"
	"log"
	"time"

	"x-lanes/backend/internal/input"
	"x-lanes/backend/internal/telemetry"
)

// Session связывает ввод с игровыми автоматами. Один раз за тик
// снимает кадр ввода и раздает его: пока дорожка принимает бросок,
// клавиши правят прицел, иначе управляют персонажем.
type Session struct {
	agg       *input.Aggregator
	character *CharacterController
	lane      *LaneMachine
	director  *CameraDirector
	sched     *Scheduler
	tele      *telemetry.Manager

	prev input.State
}

// NewSession создает оркестратор игровой сессии
func NewSession(ctx *Context, character *CharacterController, lane *LaneMachine, director *CameraDirector) *Session {
	return &Session{
		agg:       ctx.Input,
		character: character,
		lane:      lane,
		director:  director,
		sched:     ctx.Scheduler,
		tele:      ctx.Telemetry,
	}
}

// Update выполняет один тик сессии
func (s *Session) Update(deltaTime time.Duration) error {
	s.sched.Pump()

	f := s.agg.Frame()

	if f.CameraMode != 0 {
		if err := s.director.Switch(CameraMode(f.CameraMode)); err != nil {
			log.Printf("[Session] Переключение камеры %d отклонено: %v", f.CameraMode, err)
		} else {
			s.tele.LogEvent(telemetry.KindCameraMode, "", s.director.Mode().String())
		}
	}

	if f.Debug {
		s.tele.PrintSummary()
	}

	if s.lane.AllowThrow() {
		s.updateAiming(f)
	} else {
		s.character.Update(f, f.Action)
	}

	s.prev = f.State
	return nil
}

// updateAiming правит прицел: W/S меняют угол по фронту нажатия,
// A/D и свайпы сдвигают шар, действие выполняет бросок
func (s *Session) updateAiming(f input.Frame) {
	if f.Forward && !s.prev.Forward {
		s.lane.AdjustAngle(+1)
	}
	if f.Backward && !s.prev.Backward {
		s.lane.AdjustAngle(-1)
	}
	if f.Left && !s.prev.Left {
		s.lane.Nudge(-1)
	}
	if f.Right && !s.prev.Right {
		s.lane.Nudge(+1)
	}
	if f.NudgeLeft {
		s.lane.Nudge(-1)
	}
	if f.NudgeRight {
		s.lane.Nudge(+1)
	}

	if f.Action {
		if err := s.lane.Throw(); err != nil && !errors.Is(err, ErrThrowNotAllowed) {
			log.Printf("[Session] Бросок не выполнен: %v", err)
		}
	}

	// Персонаж стоит: переиздаем покой, чтобы капсула не уплывала
	s.character.Update(input.Frame{}, false)
}

// GetName имя системы для игрового цикла
func (s *Session) GetName() string {
	return "Session"
}

// GetPriority сессия выполняется до физики
func (s *Session) GetPriority() int {
	return 10
}
