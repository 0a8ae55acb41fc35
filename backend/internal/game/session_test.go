package game

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"x-lanes/backend/internal/input"
	"x-lanes/backend/internal/physics"
	"x-lanes/backend/internal/world"
)

func newSessionFixture(t *testing.T) (*Session, *LaneMachine, *physics.World, *input.Aggregator, *fakeClock) {
	t.Helper()

	phys := physics.NewWorld(physics.DefaultWorldConfig())
	scene := world.NewManager()
	if err := world.BuildLaneScene(world.NewFactory(scene, phys)); err != nil {
		t.Fatalf("build lane scene: %v", err)
	}

	clock := newFakeClock()
	agg := input.NewAggregator()
	ctx := &Context{
		Physics:   phys,
		Scene:     scene,
		Input:     agg,
		Scheduler: NewSchedulerWithClock(clock.now),
	}

	cam := NewCamera(mgl64.Vec3{0, 2, -5}, mgl64.Vec3{0, 1.6, 0})
	rig := NewFollowRig(phys, cam, world.PlayerID)
	director := NewCameraDirector(phys, cam, rig, world.PlayerID)
	character := NewCharacterController(ctx, cam, world.PlayerID)
	lane := NewLaneMachine(ctx, 6*time.Second)
	session := NewSession(ctx, character, lane, director)

	phys.Step(1.0 / 60)
	return session, lane, phys, agg, clock
}

// Пока дорожка принимает бросок, действие выполняет бросок;
// после броска то же действие становится прыжком персонажа
func TestSession_ActionRoutedByLaneState(t *testing.T) {
	session, lane, phys, agg, _ := newSessionFixture(t)

	agg.HandleKeyDown(" ")
	if err := session.Update(50 * time.Millisecond); err != nil {
		t.Fatalf("session update: %v", err)
	}
	if lane.AllowThrow() {
		t.Fatal("action in aiming mode must perform a throw")
	}

	agg.HandleKeyUp(" ")
	agg.HandleKeyDown(" ")
	if err := session.Update(50 * time.Millisecond); err != nil {
		t.Fatalf("session update: %v", err)
	}

	vel, err := phys.LinearVelocity(world.PlayerID)
	if err != nil {
		t.Fatalf("read player velocity: %v", err)
	}
	wantY := world.GetMotionTuning().JumpImpulseY / 70.0
	if math.Abs(vel.Y()-wantY) > 0.1 {
		t.Errorf("action after throw must make the player jump: vy=%v, want about %v", vel.Y(), wantY)
	}
}

// Зажатая клавиша меняет угол один раз: правка по фронту нажатия
func TestSession_AngleAdjustIsEdgeTriggered(t *testing.T) {
	session, lane, _, agg, _ := newSessionFixture(t)

	agg.HandleKeyDown("w")
	session.Update(50 * time.Millisecond)
	session.Update(50 * time.Millisecond)
	session.Update(50 * time.Millisecond)

	if lane.ThrowAngle() != 0.5 {
		t.Errorf("held key adjusted angle more than once: %v", lane.ThrowAngle())
	}

	// Отпускание и повторное нажатие дают новый фронт
	agg.HandleKeyUp("w")
	session.Update(50 * time.Millisecond)
	agg.HandleKeyDown("w")
	session.Update(50 * time.Millisecond)

	if lane.ThrowAngle() != 1.0 {
		t.Errorf("re-press must adjust angle again: %v", lane.ThrowAngle())
	}
}

// Свайпы в стороны дают одноразовый сдвиг шара
func TestSession_SwipeNudgesBall(t *testing.T) {
	session, _, phys, agg, _ := newSessionFixture(t)

	agg.HandleSwipe("right")
	session.Update(50 * time.Millisecond)
	session.Update(50 * time.Millisecond) // фронт уже потреблен

	pos, _, _, _ := phys.BodyState(world.BallID)
	want := world.GetThrowTuning().LateralStep
	if math.Abs(pos.X()-want) > 1e-9 {
		t.Errorf("ball x after one swipe = %v, want %v", pos.X(), want)
	}
}

// Неизвестный режим камеры отклоняется, рабочие переключаются
func TestSession_CameraModeKeys(t *testing.T) {
	session, _, _, agg, _ := newSessionFixture(t)

	agg.HandleKeyDown("2")
	session.Update(50 * time.Millisecond)
	if session.director.Mode() != ModeFirstPerson {
		t.Errorf("mode after key 2 = %v, want first person", session.director.Mode())
	}

	agg.HandleKeyUp("2")
	agg.HandleKeyDown("4")
	session.Update(50 * time.Millisecond)
	if session.director.Mode() != ModeFirstPerson {
		t.Errorf("unknown mode key changed mode to %v", session.director.Mode())
	}
}
