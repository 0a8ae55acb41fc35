package game

import (
	"errors"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"x-lanes/backend/internal/physics"
	"x-lanes/backend/internal/world"
)

// ErrCameraSwitchInProgress переключение режима камеры поверх
// незавершенного переключения отклонено
var ErrCameraSwitchInProgress = errors.New("camera: mode switch already in progress")

// ErrUnknownCameraMode запрошен неизвестный режим камеры
var ErrUnknownCameraMode = errors.New("camera: unknown mode")

// Camera позиция и точка взгляда орбитальной камеры.
// Рендерит клиент, сервер ведет авторитетное состояние.
type Camera struct {
	Position         mgl64.Vec3
	Target           mgl64.Vec3
	UpperRadiusLimit float64
}

// NewCamera создает камеру с пределом орбиты из настроек
func NewCamera(position, target mgl64.Vec3) *Camera {
	return &Camera{
		Position:         position,
		Target:           target,
		UpperRadiusLimit: world.GetCameraTuning().DefaultUpperLimit,
	}
}

// Yaw возвращает угол рыскания направления взгляда
func (c *Camera) Yaw() float64 {
	dir := c.Target.Sub(c.Position)
	return math.Atan2(dir.X(), dir.Z())
}

// FollowRig держит камеру приклеенной к движущемуся телу.
// Каждый тик камера переносится на дельту позиции тела, а луч от
// точки взгляда к камере подтягивает ее из-за препятствий.
type FollowRig struct {
	phys   *physics.World
	cam    *Camera
	bodyID string
	tuning world.CameraTuning

	lastBodyPos mgl64.Vec3
	hasLast     bool
	attached    bool
}

// NewFollowRig создает риг слежения за телом
func NewFollowRig(phys *physics.World, cam *Camera, bodyID string) *FollowRig {
	return &FollowRig{
		phys:   phys,
		cam:    cam,
		bodyID: bodyID,
		tuning: world.GetCameraTuning(),
	}
}

// Attach подписывает риг на обновления. На один риг - одна камера:
// два рига на одном теле устроят гонку за позицию.
func (r *FollowRig) Attach() {
	r.attached = true
	r.hasLast = false
}

// Detach полностью отписывает риг от обновлений
func (r *FollowRig) Detach() {
	r.attached = false
}

// Attached сообщает, подписан ли риг
func (r *FollowRig) Attached() bool {
	return r.attached
}

// Update выполняет один тик рига
func (r *FollowRig) Update() {
	if !r.attached {
		return
	}

	pos, _, _, ok := r.phys.BodyState(r.bodyID)
	if !ok {
		return
	}
	if !r.hasLast {
		r.lastBodyPos = pos
		r.hasLast = true
	}

	// Камера едет на той же дельте, что и тело
	delta := pos.Sub(r.lastBodyPos)
	r.lastBodyPos = pos
	r.cam.Position = r.cam.Position.Add(delta)

	eye := pos.Add(mgl64.Vec3{0, r.tuning.EyeOffsetY, 0})
	r.cam.Target = eye

	// Луч от глаз к камере: препятствие подтягивает камеру внутрь
	hit := r.phys.RayCast(eye, r.cam.Position, r.bodyID)
	if hit.Hit {
		toCam := r.cam.Position.Sub(eye)
		if l := toCam.Len(); l > 1e-9 {
			toCam = toCam.Mul(1.0 / l)
		}
		desired := eye.Add(toCam.Mul(hit.Distance * r.tuning.PullFraction))
		r.cam.Position = lerpVec(r.cam.Position, desired, r.tuning.LerpFactor)
		// Пока стена рядом, зум наружу ограничен дистанцией до нее
		r.cam.UpperRadiusLimit = hit.Distance
	} else {
		r.cam.UpperRadiusLimit = r.tuning.DefaultUpperLimit
	}
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// CameraMode режим камеры
type CameraMode int

const (
	ModeOrbit CameraMode = iota + 1
	ModeFirstPerson
	ModeThirdPerson
)

func (m CameraMode) String() string {
	switch m {
	case ModeOrbit:
		return "orbit"
	case ModeFirstPerson:
		return "firstperson"
	case ModeThirdPerson:
		return "thirdperson"
	}
	return "unknown"
}

// CameraDirector конечный автомат режимов камеры. Каждый режим
// владеет подпиской рига в паре enter/exit, поэтому риг не может
// остаться висеть на пересозданной камере.
type CameraDirector struct {
	phys      *physics.World
	cam       *Camera
	rig       *FollowRig
	bodyID    string
	mode      CameraMode
	switching bool
}

// NewCameraDirector создает автомат режимов и входит в третье лицо
func NewCameraDirector(phys *physics.World, cam *Camera, rig *FollowRig, bodyID string) *CameraDirector {
	d := &CameraDirector{
		phys:   phys,
		cam:    cam,
		rig:    rig,
		bodyID: bodyID,
	}
	d.mode = ModeThirdPerson
	d.enter(ModeThirdPerson)
	return d
}

// Mode возвращает текущий режим
func (d *CameraDirector) Mode() CameraMode {
	return d.mode
}

// Switch переключает режим камеры. Повторный запрос во время
// незавершенного переключения отклоняется без порчи состояния.
func (d *CameraDirector) Switch(mode CameraMode) error {
	if mode < ModeOrbit || mode > ModeThirdPerson {
		return ErrUnknownCameraMode
	}
	if d.switching {
		return ErrCameraSwitchInProgress
	}
	if mode == d.mode {
		return nil
	}

	d.switching = true
	defer func() { d.switching = false }()

	d.exit(d.mode)
	d.mode = mode
	d.enter(mode)
	log.Printf("[Camera] Режим камеры: %s", mode)
	return nil
}

// enter настраивает режим; подписка рига принадлежит режиму
func (d *CameraDirector) enter(mode CameraMode) {
	switch mode {
	case ModeOrbit, ModeThirdPerson:
		d.rig.Attach()
	case ModeFirstPerson:
		// От первого лица камера стоит в глазах персонажа
		if pos, _, _, ok := d.phys.BodyState(d.bodyID); ok {
			eye := pos.Add(mgl64.Vec3{0, world.GetCameraTuning().EyeOffsetY, 0})
			d.cam.Position = eye
			d.cam.Target = eye.Add(mgl64.Vec3{0, 0, 1})
		}
	}
}

// exit снимает подписки режима перед сменой
func (d *CameraDirector) exit(mode CameraMode) {
	switch mode {
	case ModeOrbit, ModeThirdPerson:
		d.rig.Detach()
	}
}
