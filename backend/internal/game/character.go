package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"x-lanes/backend/internal/input"
	"x-lanes/backend/internal/physics"
	"x-lanes/backend/internal/telemetry"
	"x-lanes/backend/internal/world"
)

var up = mgl64.Vec3{0, 1, 0}

// directionOffset дискретная поправка к углу поворота персонажа
// по комбинации зажатых направлений, градусы.
func directionOffset(forward, backward, left, right bool) float64 {
	switch {
	case forward && right:
		return 45
	case forward && left:
		return -45
	case backward && right:
		return 135
	case backward && left:
		return -135
	case forward:
		return 0
	case backward:
		return 180
	case right:
		return 90
	case left:
		return -90
	}
	return 0
}

// CharacterController переводит агрегированный ввод в команды
// скорости капсулы. Горизонтальная скорость задается от камеры,
// вертикальная составляющая тела не перезаписывается: гравитация
// и прыжок живут своей жизнью.
type CharacterController struct {
	phys     *physics.World
	bodyID   string
	cam      *Camera
	params   world.MotionTuning
	animator *Animator
	agg      *input.Aggregator
	tele     *telemetry.Manager

	active bool
	moving bool
}

// NewCharacterController создает контроллер персонажа
func NewCharacterController(ctx *Context, cam *Camera, bodyID string) *CharacterController {
	return &CharacterController{
		phys:     ctx.Physics,
		bodyID:   bodyID,
		cam:      cam,
		params:   world.GetMotionTuning(),
		animator: NewAnimator(ctx.Assets),
		agg:      ctx.Input,
		tele:     ctx.Telemetry,
		active:   true,
	}
}

// SetActive включает или выключает контроллер
func (c *CharacterController) SetActive(active bool) {
	c.active = active
}

// Moving сообщает, двигался ли персонаж на последнем тике
func (c *CharacterController) Moving() bool {
	return c.moving
}

// AnimState возвращает текущее состояние анимации
func (c *CharacterController) AnimState() AnimState {
	return c.animator.State()
}

// Update выполняет один тик контроллера: скорость, поворот, анимация
func (c *CharacterController) Update(f input.Frame, jump bool) {
	if !c.active {
		return
	}

	front, side := moveAxes(f)
	c.moving = front != 0 || side != 0

	pos, orn, vel, ok := c.phys.BodyState(c.bodyID)
	if !ok {
		return
	}

	if c.moving {
		c.applyVelocity(f, front, side, vel)
		c.applyFacing(f, pos, orn)
	} else {
		// Без зажатых клавиш переиздаем текущую скорость без изменений:
		// тело остается в покое, паразитных импульсов нет
		c.phys.SetLinearVelocity(c.bodyID, vel)
	}

	if jump {
		c.jump(pos)
	}

	// Движение и приседание прерывают танец
	dancing := f.Dance
	if dancing && (c.moving || f.Crouch) {
		c.agg.CancelDance()
		dancing = false
	}
	c.animator.Apply(selectAnim(c.moving, f.Crouch, f.Run, dancing))
}

// moveAxes вычисляет оси движения из флагов или джойстика:
// front = +1 вперед / -1 назад, side = +1 влево / -1 вправо
func moveAxes(f input.Frame) (front, side float64) {
	if f.Joystick.Active {
		return f.Joystick.Y, -f.Joystick.X
	}
	if f.Forward {
		front++
	}
	if f.Backward {
		front--
	}
	if f.Left {
		side++
	}
	if f.Right {
		side--
	}
	return front, side
}

// applyVelocity задает горизонтальную скорость относительно камеры,
// сохраняя вертикальную составляющую тела
func (c *CharacterController) applyVelocity(f input.Frame, front, side float64, vel mgl64.Vec3) {
	local := mgl64.Vec3{-side, 0, front}
	if l := local.Len(); l > 1e-9 {
		local = local.Mul(1.0 / l)
	}

	yawQuat := mgl64.QuatRotate(c.cam.Yaw(), up)
	dir := yawQuat.Rotate(local)
	dir[1] = 0
	if l := dir.Len(); l > 1e-9 {
		dir = dir.Mul(1.0 / l)
	}

	speed := c.speedTier(f)
	commanded := dir.Mul(speed)
	commanded[1] = vel.Y() // вертикаль не трогаем
	c.phys.SetLinearVelocity(c.bodyID, commanded)
}

// speedTier выбирает скорость: присед > тумблер бега > шаг
func (c *CharacterController) speedTier(f input.Frame) float64 {
	switch {
	case f.Crouch:
		return c.params.CrouchSpeed
	case f.Run:
		return c.params.RunSpeed
	default:
		return c.params.WalkSpeed
	}
}

// applyFacing плавно доворачивает капсулу к целевому углу.
// Сферическая интерполяция вместо мгновенного поворота, чтобы
// персонаж не дергался.
func (c *CharacterController) applyFacing(f input.Frame, pos mgl64.Vec3, orn mgl64.Quat) {
	camPos := c.cam.Position
	yawToCamera := math.Atan2(pos.X()-camPos.X(), pos.Z()-camPos.Z())
	offset := mgl64.DegToRad(directionOffset(f.Forward, f.Backward, f.Left, f.Right))

	target := mgl64.QuatRotate(yawToCamera+offset, up)
	c.phys.SetOrientation(c.bodyID, mgl64.QuatSlerp(orn, target, c.params.FacingLerp))
}

// jump применяет мгновенный вертикальный импульс в текущей позиции тела
func (c *CharacterController) jump(pos mgl64.Vec3) {
	impulse := mgl64.Vec3{0, c.params.JumpImpulseY, 0}
	c.phys.ApplyImpulse(c.bodyID, impulse, pos)
	c.tele.LogImpulse(telemetry.KindJump, c.bodyID,
		telemetry.Vector3{X: pos.X(), Y: pos.Y(), Z: pos.Z()},
		telemetry.Vector3{Y: impulse.Y()})
}
