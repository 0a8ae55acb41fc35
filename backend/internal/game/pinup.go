package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"x-lanes/backend/internal/physics"
)

// UprightSpec параметры классификации "кегля стоит".
// Поза покоя и допуск настраиваются на конкретный ассет,
// поэтому задаются снаружи, а не константами в коде.
type UprightSpec struct {
	RestOrientation mgl64.Quat
	Tolerance       float64 // допуск по каждой оси Эйлера, радианы
}

// NewUprightSpec создает спецификацию с единичной позой покоя
func NewUprightSpec(tolerance float64) UprightSpec {
	return UprightSpec{
		RestOrientation: mgl64.QuatIdent(),
		Tolerance:       tolerance,
	}
}

// Upright чистая функция: стоит ли тело с данной ориентацией.
// Ориентация сравнивается с позой покоя по трем осям Эйлера,
// кегля стоит только если все три отклонения в допуске.
func (s UprightSpec) Upright(orientation mgl64.Quat) bool {
	rel := s.RestOrientation.Inverse().Mul(orientation)
	angles := physics.EulerAngles(rel)
	for i := 0; i < 3; i++ {
		if math.Abs(angles[i]) > s.Tolerance {
			return false
		}
	}
	return true
}

// ClassifyBody классифицирует тело. Тело без достоверной ориентации
// (ни одного шага симуляции) считается упавшим: безопасный отказ
// в сторону "сбита".
func (s UprightSpec) ClassifyBody(b *physics.Body) bool {
	if b == nil || !b.Simulated() {
		return false
	}
	return s.Upright(b.Orientation)
}
