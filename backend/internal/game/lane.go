package game

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"x-lanes/backend/internal/physics"
	"x-lanes/backend/internal/telemetry"
	"x-lanes/backend/internal/world"
)

// ErrThrowNotAllowed бросок запрошен, пока предыдущий не разрешен.
// Отклоняется без порчи состояния: allowThrow - единственный страж
// окна ожидания.
var ErrThrowNotAllowed = errors.New("lane: throw not allowed while previous throw is resolving")

// LanePhase фаза автомата броска
type LanePhase int

const (
	PhaseReady LanePhase = iota
	PhaseThrown
	PhaseResolving
)

// LaneStage стадия сброса дорожки. Две стадии чередуются:
// STAGED замораживает только сбитые кегли, RESET возвращает
// все кегли и шар в позу покоя.
type LaneStage int

const (
	StageStaged LaneStage = iota
	StageReset
)

// LaneEvent событие дорожки для трансляции клиентам
type LaneEvent struct {
	Phase      string  `json:"phase"`
	Stage      int     `json:"stage"`
	AllowThrow bool    `json:"allow_throw"`
	Standing   int     `json:"standing"`
	ThrowAngle float64 `json:"throw_angle"`
}

// LaneMachine автомат броска и сброса дорожки:
// READY -> THROWN -> (задержка оседания) -> RESOLVING -> READY
type LaneMachine struct {
	phys    *physics.World
	scene   *world.Manager
	sched   *Scheduler
	tele    *telemetry.Manager
	tuning  world.ThrowTuning
	upright UprightSpec

	settleDelay time.Duration

	phase      LanePhase
	stage      LaneStage
	throwAngle float64
	throwPower float64
	allowThrow bool
	standing   int
	pending    *Task

	onEvent func(LaneEvent)
}

// NewLaneMachine создает автомат дорожки в готовом к броску состоянии
func NewLaneMachine(ctx *Context, settleDelay time.Duration) *LaneMachine {
	tuning := world.GetThrowTuning()
	return &LaneMachine{
		phys:        ctx.Physics,
		scene:       ctx.Scene,
		sched:       ctx.Scheduler,
		tele:        ctx.Telemetry,
		tuning:      tuning,
		upright:     NewUprightSpec(world.GetPinTuning().UprightTolerance),
		settleDelay: settleDelay,
		phase:       PhaseReady,
		stage:       StageStaged,
		throwPower:  tuning.DefaultPower,
		allowThrow:  true,
		standing:    10,
	}
}

// OnEvent регистрирует получателя событий дорожки
func (l *LaneMachine) OnEvent(fn func(LaneEvent)) {
	l.onEvent = fn
}

// AllowThrow сообщает, принимает ли автомат бросок
func (l *LaneMachine) AllowThrow() bool {
	return l.allowThrow
}

// Phase возвращает текущую фазу
func (l *LaneMachine) Phase() LanePhase {
	return l.phase
}

// Stage возвращает текущую стадию сброса
func (l *LaneMachine) Stage() LaneStage {
	return l.stage
}

// ThrowAngle возвращает текущий угол броска, градусы
func (l *LaneMachine) ThrowAngle() float64 {
	return l.throwAngle
}

// Standing возвращает число стоящих кегель после последнего разрешения
func (l *LaneMachine) Standing() int {
	return l.standing
}

// SetThrowPower задает силу броска
func (l *LaneMachine) SetThrowPower(power float64) {
	l.throwPower = power
}

// AdjustAngle сдвигает угол броска на знак delta с шагом 0.5
// в пределах [-5, 5]. Работает только пока разрешен бросок.
// Поворот шара - визуальная обратная связь, поэтому тело вращается
// через отключение предсказания на один тик.
func (l *LaneMachine) AdjustAngle(direction float64) {
	if !l.allowThrow {
		return
	}

	step := l.tuning.AngleStep
	if direction < 0 {
		step = -step
	}
	next := clamp(l.throwAngle+step, l.tuning.MinAngle, l.tuning.MaxAngle)
	if next == l.throwAngle {
		return // уперлись в границу, выход за допуск не ошибка
	}
	l.throwAngle = next

	pos, _, _, ok := l.phys.BodyState(world.BallID)
	if !ok {
		return
	}
	orn := mgl64.QuatRotate(mgl64.DegToRad(l.throwAngle), up)
	l.teleport(world.BallID, pos, orn)
	l.emit()
}

// Nudge одноразово сдвигает шар по x на знак direction с ограничением
// границами дорожки. За границей движение не происходит вовсе.
func (l *LaneMachine) Nudge(direction float64) {
	if !l.allowThrow {
		return
	}

	pos, orn, _, ok := l.phys.BodyState(world.BallID)
	if !ok {
		return
	}

	step := l.tuning.LateralStep
	if direction < 0 {
		step = -step
	}
	nextX := clamp(pos.X()+step, -l.tuning.LateralClamp, l.tuning.LateralClamp)
	if nextX == pos.X() {
		return
	}
	l.teleport(world.BallID, mgl64.Vec3{nextX, pos.Y(), pos.Z()}, orn)
}

// Throw применяет импульс броска к шару и запускает окно ожидания.
// Пока окно открыто, повторный бросок отклоняется: allowThrow
// закрывается немедленно и открывается только после разрешения стадии.
func (l *LaneMachine) Throw() error {
	if !l.allowThrow {
		return ErrThrowNotAllowed
	}

	pos, _, _, ok := l.phys.BodyState(world.BallID)
	if !ok {
		return fmt.Errorf("lane: ball body missing")
	}

	impulse := throwImpulse(l.throwAngle, l.throwPower)
	if err := l.phys.ApplyImpulse(world.BallID, impulse, pos); err != nil {
		return err
	}

	l.allowThrow = false
	l.phase = PhaseThrown

	l.tele.LogImpulse(telemetry.KindThrow, world.BallID,
		telemetry.Vector3{X: pos.X(), Y: pos.Y(), Z: pos.Z()},
		telemetry.Vector3{X: impulse.X(), Y: impulse.Y(), Z: impulse.Z()})
	log.Printf("[Lane] Бросок: угол %.1f, сила %.1f, импульс (%.2f, %.2f, %.2f)",
		l.throwAngle, l.throwPower, impulse.X(), impulse.Y(), impulse.Z())

	// Задача несет снимок стадии на момент броска
	stage := l.stage
	l.pending = l.sched.After(l.settleDelay, func() {
		l.resolve(stage)
	})

	l.emit()
	return nil
}

// Dispose отменяет отложенное разрешение стадии
func (l *LaneMachine) Dispose() {
	if l.pending != nil {
		l.pending.Cancel()
	}
}

// resolve классифицирует кегли и выполняет стадию сброса
func (l *LaneMachine) resolve(stage LaneStage) {
	l.phase = PhaseResolving

	switch stage {
	case StageStaged:
		l.resolveStaged()
		l.stage = StageReset
	case StageReset:
		l.resolveReset()
		l.stage = StageStaged
	}

	// Шар возвращается на точку запуска в начале каждой стадии
	l.resetBall()

	l.phase = PhaseReady
	l.allowThrow = true
	l.throwAngle = 0

	l.tele.LogEvent(telemetry.KindStageFlip, "", fmt.Sprintf("stage=%d standing=%d", l.stage, l.standing))
	log.Printf("[Lane] Стадия %d разрешена: стоит %d кегель", stage, l.standing)
	l.emit()
}

// resolveStaged замораживает сбитые кегли в скрытой позиции,
// стоящие остаются живыми
func (l *LaneMachine) resolveStaged() {
	standing := 0
	for _, pin := range l.scene.Pins() {
		body, ok := l.phys.Body(pin.ID)
		if !ok {
			continue
		}
		if l.upright.ClassifyBody(body) {
			standing++
			continue
		}

		l.phys.SetMotionType(pin.ID, physics.MotionStatic)
		hidden := mgl64.Vec3{pin.RestPosition.X(), l.tuning.FrozenPinY, pin.RestPosition.Z()}
		l.teleport(pin.ID, hidden, pin.RestOrientation)
		l.tele.LogEvent(telemetry.KindPinFrozen, pin.ID, "")
	}
	l.standing = standing
}

// resolveReset возвращает все кегли в позу покоя и размораживает их
func (l *LaneMachine) resolveReset() {
	for _, pin := range l.scene.Pins() {
		l.phys.SetMotionType(pin.ID, physics.MotionDynamic)
		l.teleport(pin.ID, pin.RestPosition, pin.RestOrientation)
	}
	l.standing = 10
	l.tele.LogEvent(telemetry.KindLaneReset, "", "")
}

// resetBall возвращает шар на точку запуска
func (l *LaneMachine) resetBall() {
	l.teleport(world.BallID, l.tuning.BallLaunch, mgl64.QuatIdent())
}

// teleport безопасно переносит тело: предсказание отключается до
// записи позиции и включается после того, как следующий шаг
// симуляции поглотит новое состояние.
func (l *LaneMachine) teleport(id string, pos mgl64.Vec3, orn mgl64.Quat) {
	if err := l.phys.SetPreStepDisabled(id, true); err != nil {
		log.Printf("[Lane] Телепорт %s: %v", id, err)
		return
	}
	if err := l.phys.SetTransform(id, pos, orn); err != nil {
		log.Printf("[Lane] Телепорт %s: %v", id, err)
	}
	l.phys.RunAfterNextStep(func() {
		l.phys.SetPreStepDisabled(id, false)
	})
}

// emit отправляет событие дорожки подписчику
func (l *LaneMachine) emit() {
	if l.onEvent == nil {
		return
	}
	l.onEvent(LaneEvent{
		Phase:      phaseName(l.phase),
		Stage:      int(l.stage),
		AllowThrow: l.allowThrow,
		Standing:   l.standing,
		ThrowAngle: l.throwAngle,
	})
}

func phaseName(p LanePhase) string {
	switch p {
	case PhaseThrown:
		return "thrown"
	case PhaseResolving:
		return "resolving"
	}
	return "ready"
}

// throwImpulse вектор импульса броска: небольшая боковая составляющая
// от угла, основная - вперед от силы
func throwImpulse(angleDeg, power float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(angleDeg)
	return mgl64.Vec3{power * math.Sin(rad), 0, power * math.Cos(rad)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
