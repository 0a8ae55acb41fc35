package game

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"x-lanes/backend/internal/input"
	"x-lanes/backend/internal/physics"
	"x-lanes/backend/internal/world"
)

// Строит полную сцену дорожки и прогоняет один шаг физики,
// чтобы кегли получили достоверную ориентацию
func newLaneFixture(t *testing.T) (*LaneMachine, *physics.World, *world.Manager, *fakeClock) {
	t.Helper()

	phys := physics.NewWorld(physics.DefaultWorldConfig())
	scene := world.NewManager()
	if err := world.BuildLaneScene(world.NewFactory(scene, phys)); err != nil {
		t.Fatalf("build lane scene: %v", err)
	}

	clock := newFakeClock()
	ctx := &Context{
		Physics:   phys,
		Scene:     scene,
		Input:     input.NewAggregator(),
		Scheduler: NewSchedulerWithClock(clock.now),
	}
	lane := NewLaneMachine(ctx, 6*time.Second)

	phys.Step(1.0 / 60)
	return lane, phys, scene, clock
}

// tipPin опрокидывает кеглю телепортом в лежачую ориентацию
func tipPin(t *testing.T, phys *physics.World, id string) {
	t.Helper()
	pos, _, _, ok := phys.BodyState(id)
	if !ok {
		t.Fatalf("pin %s not found", id)
	}
	if err := phys.SetPreStepDisabled(id, true); err != nil {
		t.Fatalf("disable pre-step for %s: %v", id, err)
	}
	fallen := mgl64.QuatRotate(1.2, mgl64.Vec3{1, 0, 0})
	if err := phys.SetTransform(id, pos, fallen); err != nil {
		t.Fatalf("tip pin %s: %v", id, err)
	}
	if err := phys.SetPreStepDisabled(id, false); err != nil {
		t.Fatalf("enable pre-step for %s: %v", id, err)
	}
}

func TestThrowImpulseVector(t *testing.T) {
	// Прямой бросок с силой по умолчанию дает ровно (0, 0, 100)
	imp := throwImpulse(0, 100)
	if imp.X() != 0 || imp.Y() != 0 || imp.Z() != 100 {
		t.Errorf("throwImpulse(0, 100) = %v, want (0,0,100)", imp)
	}

	// Угол уводит импульс вбок, сохраняя величину
	imp = throwImpulse(5, 100)
	if imp.X() <= 0 {
		t.Errorf("positive angle must push the ball to +x, got %v", imp)
	}
	if math.Abs(imp.Len()-100) > 1e-9 {
		t.Errorf("impulse magnitude = %v, want 100", imp.Len())
	}
}

func TestLane_ThrowGating(t *testing.T) {
	lane, phys, _, clock := newLaneFixture(t)

	var events []LaneEvent
	lane.OnEvent(func(e LaneEvent) { events = append(events, e) })

	if !lane.AllowThrow() {
		t.Fatal("fresh lane must accept a throw")
	}
	if err := lane.Throw(); err != nil {
		t.Fatalf("first throw failed: %v", err)
	}

	// Окно ожидания: повторный бросок отклоняется, состояние не портится
	if err := lane.Throw(); !errors.Is(err, ErrThrowNotAllowed) {
		t.Errorf("second throw error = %v, want ErrThrowNotAllowed", err)
	}
	if lane.Phase() != PhaseThrown {
		t.Errorf("phase = %v, want PhaseThrown", lane.Phase())
	}

	vel, err := phys.LinearVelocity(world.BallID)
	if err != nil {
		t.Fatalf("read ball velocity: %v", err)
	}
	if math.Abs(vel.Z()-100.0/6.0) > 0.5 {
		t.Errorf("ball forward velocity = %v, want about %v", vel.Z(), 100.0/6.0)
	}

	// До истечения задержки оседания окно остается закрытым
	clock.advance(5 * time.Second)
	lane.sched.Pump()
	if lane.AllowThrow() {
		t.Fatal("throw window reopened before settle delay elapsed")
	}

	clock.advance(2 * time.Second)
	lane.sched.Pump()
	if !lane.AllowThrow() {
		t.Fatal("throw window must reopen after resolution")
	}
	if lane.Phase() != PhaseReady {
		t.Errorf("phase after resolution = %v, want PhaseReady", lane.Phase())
	}

	if len(events) == 0 || events[len(events)-1].AllowThrow != true {
		t.Error("final lane event must carry allow_throw=true")
	}
}

func TestLane_AngleClamp(t *testing.T) {
	lane, _, _, _ := newLaneFixture(t)

	for i := 0; i < 25; i++ {
		lane.AdjustAngle(+1)
	}
	if lane.ThrowAngle() != 5.0 {
		t.Errorf("angle after 25 increments = %v, want clamp at 5", lane.ThrowAngle())
	}

	for i := 0; i < 50; i++ {
		lane.AdjustAngle(-1)
	}
	if lane.ThrowAngle() != -5.0 {
		t.Errorf("angle after 50 decrements = %v, want clamp at -5", lane.ThrowAngle())
	}
}

func TestLane_AngleFrozenWhileResolving(t *testing.T) {
	lane, _, _, _ := newLaneFixture(t)

	if err := lane.Throw(); err != nil {
		t.Fatalf("throw: %v", err)
	}
	lane.AdjustAngle(+1)
	if lane.ThrowAngle() != 0 {
		t.Errorf("angle changed while throw window closed: %v", lane.ThrowAngle())
	}
}

func TestLane_NudgeClamp(t *testing.T) {
	lane, phys, _, _ := newLaneFixture(t)

	// Десять сдвигов по 0.3 упираются в границу дорожки 1.8
	for i := 0; i < 10; i++ {
		lane.Nudge(+1)
	}
	pos, _, _, _ := phys.BodyState(world.BallID)
	if math.Abs(pos.X()-1.8) > 1e-9 {
		t.Errorf("ball x after nudges = %v, want clamp at 1.8", pos.X())
	}

	// За границей сдвиг не происходит вовсе
	lane.Nudge(+1)
	pos, _, _, _ = phys.BodyState(world.BallID)
	if math.Abs(pos.X()-1.8) > 1e-9 {
		t.Errorf("nudge past the bound moved the ball to %v", pos.X())
	}
}

// Сценарий первой стадии: сбитые кегли замораживаются наверху,
// стоящие продолжают жить, шар возвращается на точку запуска
func TestLane_StagedFreezesFallenPins(t *testing.T) {
	lane, phys, _, clock := newLaneFixture(t)

	tipPin(t, phys, world.PinID(1))
	tipPin(t, phys, world.PinID(5))

	if err := lane.Throw(); err != nil {
		t.Fatalf("throw: %v", err)
	}
	clock.advance(7 * time.Second)
	lane.sched.Pump()

	if lane.Standing() != 8 {
		t.Errorf("standing = %d, want 8", lane.Standing())
	}
	if lane.Stage() != StageReset {
		t.Errorf("stage after staged resolution = %v, want StageReset", lane.Stage())
	}

	// Сбитая кегля статична и спрятана на высоте заморозки
	frozen, ok := phys.Body(world.PinID(1))
	if !ok {
		t.Fatal("pin_1 body missing")
	}
	if frozen.Motion != physics.MotionStatic {
		t.Error("fallen pin must become static")
	}
	if math.Abs(frozen.Position.Y()-1.5) > 1e-9 {
		t.Errorf("frozen pin y = %v, want 1.5", frozen.Position.Y())
	}

	// Стоящая кегля осталась динамической
	alive, _ := phys.Body(world.PinID(2))
	if alive.Motion != physics.MotionDynamic {
		t.Error("standing pin must stay dynamic")
	}

	// Шар вернулся на точку запуска
	ballPos, _, ballVel, _ := phys.BodyState(world.BallID)
	launch := world.GetThrowTuning().BallLaunch
	if ballPos != launch {
		t.Errorf("ball position after resolution = %v, want %v", ballPos, launch)
	}
	if ballVel.Len() > 1e-9 {
		t.Errorf("ball must be at rest after reset, velocity = %v", ballVel)
	}

	if !lane.AllowThrow() {
		t.Error("throw window must reopen after staged resolution")
	}
	if lane.ThrowAngle() != 0 {
		t.Errorf("throw angle must reset to 0, got %v", lane.ThrowAngle())
	}
}

// Сценарий второй стадии: все кегли возвращаются в позу покоя
// и снова симулируются
func TestLane_ResetRestoresAllPins(t *testing.T) {
	lane, phys, scene, clock := newLaneFixture(t)

	// Первая стадия замораживает сбитую кеглю
	tipPin(t, phys, world.PinID(3))
	if err := lane.Throw(); err != nil {
		t.Fatalf("first throw: %v", err)
	}
	clock.advance(7 * time.Second)
	lane.sched.Pump()
	if lane.Stage() != StageReset {
		t.Fatalf("stage = %v, want StageReset before second throw", lane.Stage())
	}

	// Вторая стадия возвращает всё
	if err := lane.Throw(); err != nil {
		t.Fatalf("second throw: %v", err)
	}
	clock.advance(7 * time.Second)
	lane.sched.Pump()

	if lane.Stage() != StageStaged {
		t.Errorf("stage after reset resolution = %v, want StageStaged", lane.Stage())
	}
	if lane.Standing() != 10 {
		t.Errorf("standing after reset = %d, want 10", lane.Standing())
	}

	for _, pin := range scene.Pins() {
		body, ok := phys.Body(pin.ID)
		if !ok {
			t.Fatalf("pin %s body missing", pin.ID)
		}
		if body.Motion != physics.MotionDynamic {
			t.Errorf("pin %s must be dynamic after reset", pin.ID)
		}
		if body.Position != pin.RestPosition {
			t.Errorf("pin %s position = %v, want rest %v", pin.ID, body.Position, pin.RestPosition)
		}
	}
}
