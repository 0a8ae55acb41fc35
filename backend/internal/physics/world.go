package physics

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrBodyNotFound тело с таким идентификатором не зарегистрировано
	ErrBodyNotFound = errors.New("physics: body not found")
	// ErrDuplicateBody тело с таким идентификатором уже существует
	ErrDuplicateBody = errors.New("physics: duplicate body id")
	// ErrPreStepEnabled попытка телепортировать тело без отключения предсказания
	ErrPreStepEnabled = errors.New("physics: position write requires pre-step disabled")
)

// WorldConfig настройки физического мира
type WorldConfig struct {
	Gravity         mgl64.Vec3
	LinearDamping   float64
	AngularDamping  float64
	FloorY          float64 // высота поверхности дорожки
	FloorFriction   float64
	RollingFriction float64
	RestVelocity    float64 // ниже этой скорости отскок от пола гасится в ноль
}

// DefaultWorldConfig возвращает настройки мира по умолчанию
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:         mgl64.Vec3{0, -9.81, 0},
		LinearDamping:   0.05,
		AngularDamping:  0.1,
		FloorY:          0.0,
		FloorFriction:   0.8,
		RollingFriction: 0.3,
		RestVelocity:    0.5,
	}
}

// Hit результат трассировки луча
type Hit struct {
	Hit      bool
	BodyID   string
	Point    mgl64.Vec3
	Distance float64
}

// World физический мир: владеет телами, шагает симуляцию,
// применяет импульсы и трассирует лучи.
type World struct {
	mu     sync.RWMutex
	cfg    WorldConfig
	bodies map[string]*Body
	order  []string // стабильный порядок обхода тел

	afterStep []func() // одноразовые хуки после следующего шага
	stepCount uint64
}

// NewWorld создает пустой физический мир
func NewWorld(cfg WorldConfig) *World {
	return &World{
		cfg:    cfg,
		bodies: make(map[string]*Body),
	}
}

// AddBody регистрирует тело в мире
func (w *World) AddBody(b *Body) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.bodies[b.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBody, b.ID)
	}
	w.bodies[b.ID] = b
	w.order = append(w.order, b.ID)
	return nil
}

// Body возвращает тело по идентификатору
func (w *World) Body(id string) (*Body, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.bodies[id]
	return b, ok
}

// BodyState возвращает копию кинематического состояния тела
func (w *World) BodyState(id string) (position mgl64.Vec3, orientation mgl64.Quat, velocity mgl64.Vec3, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, exists := w.bodies[id]
	if !exists {
		return mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{}, false
	}
	return b.Position, b.Orientation, b.LinearVelocity, true
}

// LinearVelocity возвращает линейную скорость тела
func (w *World) LinearVelocity(id string) (mgl64.Vec3, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.bodies[id]
	if !ok {
		return mgl64.Vec3{}, fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	return b.LinearVelocity, nil
}

// SetLinearVelocity задает линейную скорость тела
func (w *World) SetLinearVelocity(id string, v mgl64.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	b.LinearVelocity = v
	return nil
}

// SetMotionType переключает режим симуляции тела
func (w *World) SetMotionType(id string, motion MotionType) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	if b.Motion != motion {
		b.Motion = motion
		if motion == MotionStatic {
			b.LinearVelocity = mgl64.Vec3{}
			b.AngularVelocity = mgl64.Vec3{}
		}
	}
	return nil
}

// SetPreStepDisabled взводит или снимает флаг отключения предсказания
func (w *World) SetPreStepDisabled(id string, disabled bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	b.PreStepDisabled = disabled
	return nil
}

// SetTransform телепортирует тело. Разрешено только при взведенном
// PreStepDisabled: порядок "отключить предсказание - записать позицию -
// включить после следующего шага" обязателен (см. RunAfterNextStep).
func (w *World) SetTransform(id string, position mgl64.Vec3, orientation mgl64.Quat) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	if !b.PreStepDisabled {
		return fmt.Errorf("%w: %s", ErrPreStepEnabled, id)
	}
	b.Position = position
	b.Orientation = orientation
	b.LinearVelocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
	return nil
}

// SetOrientation задает ориентацию тела без сброса скоростей.
// Используется контроллером персонажа для плавного поворота капсулы.
func (w *World) SetOrientation(id string, orientation mgl64.Quat) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	b.Orientation = orientation
	return nil
}

// ApplyImpulse применяет мгновенный импульс в мировой точке
func (w *World) ApplyImpulse(id string, impulse, worldPoint mgl64.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	if b.Motion == MotionStatic {
		log.Printf("[Physics] Импульс к статическому телу %s проигнорирован", id)
		return nil
	}
	inv := b.invMass()
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(inv))

	// Импульс вне центра масс закручивает тело
	if b.Shape.tumbles() {
		r := worldPoint.Sub(b.Position)
		torque := r.Cross(impulse)
		b.AngularVelocity = b.AngularVelocity.Add(torque.Mul(inv / inertiaFactor(b.Shape)))
	}
	return nil
}

// RunAfterNextStep регистрирует одноразовый хук, который выполнится
// после того, как следующий шаг симуляции поглотит записанное состояние.
// Хуки выполняются вне блокировки мира.
func (w *World) RunAfterNextStep(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.afterStep = append(w.afterStep, fn)
}

// StepCount возвращает число выполненных шагов
func (w *World) StepCount() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stepCount
}

// Step продвигает симуляцию на dt секунд
func (w *World) Step(dt float64) {
	w.mu.Lock()

	for _, id := range w.order {
		b := w.bodies[id]
		if b.Motion != MotionDynamic || b.PreStepDisabled {
			continue
		}
		w.integrate(b, dt)
	}
	w.resolvePairs()

	w.stepCount++
	hooks := w.afterStep
	w.afterStep = nil
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// integrate интегрирует одно тело: гравитация, затухание, контакт с полом
func (w *World) integrate(b *Body, dt float64) {
	b.LinearVelocity = b.LinearVelocity.Add(w.cfg.Gravity.Mul(dt))
	b.LinearVelocity = b.LinearVelocity.Mul(1.0 - w.cfg.LinearDamping*dt)
	b.Position = b.Position.Add(b.LinearVelocity.Mul(dt))

	// Контакт с поверхностью дорожки
	bottom := b.Position.Y() - b.Shape.halfHeight()
	if bottom < w.cfg.FloorY {
		b.Position[1] += w.cfg.FloorY - bottom
		if b.LinearVelocity.Y() < 0 {
			bounce := -b.LinearVelocity.Y() * b.Restitution
			if bounce < w.cfg.RestVelocity {
				bounce = 0
			}
			b.LinearVelocity[1] = bounce
		}
		// Трение гасит горизонтальное скольжение
		friction := 1.0 - w.cfg.FloorFriction*dt
		if friction < 0 {
			friction = 0
		}
		b.LinearVelocity[0] *= friction
		b.LinearVelocity[2] *= friction
		b.AngularVelocity = b.AngularVelocity.Mul(1.0 - w.cfg.RollingFriction*dt)
	}

	if b.Shape.tumbles() {
		b.AngularVelocity = b.AngularVelocity.Mul(1.0 - w.cfg.AngularDamping*dt)
		b.Orientation = integrateOrientation(b.Orientation, b.AngularVelocity, dt)
	}

	b.simulated = true
}

// resolvePairs разрешает попарные столкновения динамических тел.
// Тела аппроксимируются сферами коллизионного радиуса: для шара и кегель
// этого достаточно, капсула персонажа по дорожке не ходит.
func (w *World) resolvePairs() {
	for i := 0; i < len(w.order); i++ {
		for j := i + 1; j < len(w.order); j++ {
			a := w.bodies[w.order[i]]
			b := w.bodies[w.order[j]]
			if a.Shape.Kind == BOX || b.Shape.Kind == BOX {
				continue
			}
			if a.Motion == MotionStatic && b.Motion == MotionStatic {
				continue
			}
			w.resolveContact(a, b)
		}
	}
}

func (w *World) resolveContact(a, b *Body) {
	ra := a.Shape.collisionRadius()
	rb := b.Shape.collisionRadius()
	delta := b.Position.Sub(a.Position)
	dist := delta.Len()
	if dist <= 1e-9 || dist >= ra+rb {
		return
	}

	normal := delta.Mul(1.0 / dist)
	overlap := ra + rb - dist

	invA := a.invMass()
	invB := b.invMass()
	invSum := invA + invB
	if invSum <= 0 {
		return
	}

	// Разводим тела пропорционально обратным массам
	a.Position = a.Position.Sub(normal.Mul(overlap * invA / invSum))
	b.Position = b.Position.Add(normal.Mul(overlap * invB / invSum))

	relVel := b.LinearVelocity.Sub(a.LinearVelocity)
	vn := relVel.Dot(normal)
	if vn >= 0 {
		return
	}

	e := math.Min(a.Restitution, b.Restitution)
	j := -(1.0 + e) * vn / invSum
	impulse := normal.Mul(j)

	a.LinearVelocity = a.LinearVelocity.Sub(impulse.Mul(invA))
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(invB))

	// Удар в корпус опрокидывает кеглю: контакт приходится ниже центра масс
	if a.Shape.tumbles() && invA > 0 {
		lever := mgl64.Vec3{0, -a.Shape.halfHeight() / 2, 0}
		a.AngularVelocity = a.AngularVelocity.Sub(lever.Cross(impulse).Mul(invA / inertiaFactor(a.Shape)))
	}
	if b.Shape.tumbles() && invB > 0 {
		lever := mgl64.Vec3{0, -b.Shape.halfHeight() / 2, 0}
		b.AngularVelocity = b.AngularVelocity.Add(lever.Cross(impulse).Mul(invB / inertiaFactor(b.Shape)))
	}
}

// RayCast трассирует луч от from к to и возвращает ближайшее пересечение.
// Отсутствие пересечения не ошибка: это штатный случай "ничего не заслоняет".
func (w *World) RayCast(from, to mgl64.Vec3, exclude ...string) Hit {
	w.mu.RLock()
	defer w.mu.RUnlock()

	dir := to.Sub(from)
	maxDist := dir.Len()
	if maxDist <= 1e-9 {
		return Hit{}
	}
	dir = dir.Mul(1.0 / maxDist)

	excluded := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}

	best := Hit{Distance: math.Inf(1)}
	for _, id := range w.order {
		if _, skip := excluded[id]; skip {
			continue
		}
		b := w.bodies[id]
		var t float64
		var ok bool
		if b.Shape.Kind == BOX {
			t, ok = rayAABB(from, dir, b.Position, b.Shape.Box)
		} else {
			t, ok = raySphere(from, dir, b.Position, b.Shape.collisionRadius())
		}
		if ok && t >= 0 && t <= maxDist && t < best.Distance {
			best = Hit{
				Hit:      true,
				BodyID:   id,
				Point:    from.Add(dir.Mul(t)),
				Distance: t,
			}
		}
	}
	if !best.Hit {
		return Hit{}
	}
	return best
}
