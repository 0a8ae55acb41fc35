package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// MotionType режим симуляции тела
type MotionType int

const (
	// MotionDynamic тело полностью симулируется физикой
	MotionDynamic MotionType = iota
	// MotionStatic тело заморожено, участвует только как препятствие
	MotionStatic
)

// Body твердое тело в физическом мире.
// Владельцем тела является World, контроллеры держат ссылку и работают
// с телом через методы World.
type Body struct {
	ID          string
	Shape       *ShapeDescriptor
	Mass        float64
	Restitution float64

	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3

	Motion MotionType

	// PreStepDisabled отключает экстраполяцию перед шагом симуляции.
	// Пока флаг не взведен, внешняя запись позиции запрещена: телепорт
	// живого тела ломает предсказание скорости.
	PreStepDisabled bool

	// simulated становится true после первого шага, на котором тело
	// участвовало в интеграции. До этого ориентация тела не достоверна.
	simulated bool
}

// NewBody создает тело с единичной ориентацией
func NewBody(id string, shape *ShapeDescriptor, mass, restitution float64, position mgl64.Vec3) *Body {
	return &Body{
		ID:          id,
		Shape:       shape,
		Mass:        mass,
		Restitution: restitution,
		Position:    position,
		Orientation: mgl64.QuatIdent(),
		Motion:      MotionDynamic,
	}
}

// Simulated сообщает, прошло ли тело хотя бы один шаг симуляции
func (b *Body) Simulated() bool {
	return b.simulated
}

// invMass возвращает обратную массу; для статических тел 0
func (b *Body) invMass() float64 {
	if b.Motion == MotionStatic || b.Mass <= 0 {
		return 0
	}
	return 1.0 / b.Mass
}
