package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// MotionTuning настройки движения персонажа
type MotionTuning struct {
	WalkSpeed    float64
	CrouchSpeed  float64
	RunSpeed     float64
	JumpImpulseY float64
	FacingLerp   float64 // коэффициент сферической интерполяции поворота за тик
}

// CameraTuning настройки следящей камеры
type CameraTuning struct {
	EyeOffsetY        float64 // вертикальное смещение точки взгляда
	DefaultUpperLimit float64 // предел радиуса орбиты без препятствий
	PullFraction      float64 // доля дистанции до препятствия при подтягивании
	LerpFactor        float64 // коэффициент линейной интерполяции позиции
}

// ThrowTuning настройки броска и сброса дорожки
type ThrowTuning struct {
	MinAngle     float64 // градусы
	MaxAngle     float64
	AngleStep    float64
	DefaultPower float64
	LateralStep  float64 // шаг бокового сдвига шара
	LateralClamp float64 // границы дорожки по x
	FrozenPinY   float64 // высота, на которой прячутся замороженные кегли
	BallLaunch   mgl64.Vec3
}

// PinTuning настройки кегли
type PinTuning struct {
	Radius      float64
	Height      float64
	Mass        float64
	Restitution float64
	// UprightTolerance допуск по каждой оси Эйлера, радианы.
	// Константы поз покоя настраиваются на конкретный ассет,
	// поэтому живут здесь, а не в коде классификатора.
	UprightTolerance float64
}

// BallTuning настройки шара
type BallTuning struct {
	Radius      float64
	Mass        float64
	Restitution float64
}

// Tuning объединяет все игровые настройки
type Tuning struct {
	Motion MotionTuning
	Camera CameraTuning
	Throw  ThrowTuning
	Pin    PinTuning
	Ball   BallTuning
}

var (
	tuning Tuning
	tunMu  sync.RWMutex
)

// Инициализация настроек по умолчанию
func init() {
	tuning = Tuning{
		Motion: MotionTuning{
			WalkSpeed:    2.0,
			CrouchSpeed:  0.9,
			RunSpeed:     4.5,
			JumpImpulseY: 350.0,
			FacingLerp:   0.2,
		},
		Camera: CameraTuning{
			EyeOffsetY:        1.6,
			DefaultUpperLimit: 8.0,
			PullFraction:      0.85,
			LerpFactor:        0.8,
		},
		Throw: ThrowTuning{
			MinAngle:     -5.0,
			MaxAngle:     5.0,
			AngleStep:    0.5,
			DefaultPower: 100.0,
			LateralStep:  0.3,
			LateralClamp: 1.8,
			FrozenPinY:   1.5,
			BallLaunch:   mgl64.Vec3{0, 0.5, 1},
		},
		Pin: PinTuning{
			Radius:           0.12,
			Height:           0.8,
			Mass:             1.5,
			Restitution:      0.3,
			UprightTolerance: 0.07,
		},
		Ball: BallTuning{
			Radius:      0.3,
			Mass:        6.0,
			Restitution: 0.3,
		},
	}
}

// GetTuning возвращает все текущие настройки
func GetTuning() Tuning {
	tunMu.RLock()
	defer tunMu.RUnlock()
	return tuning
}

// SetTuning устанавливает новые настройки
func SetTuning(t Tuning) {
	tunMu.Lock()
	defer tunMu.Unlock()
	tuning = t
}

// GetMotionTuning возвращает настройки движения
func GetMotionTuning() MotionTuning {
	tunMu.RLock()
	defer tunMu.RUnlock()
	return tuning.Motion
}

// GetCameraTuning возвращает настройки камеры
func GetCameraTuning() CameraTuning {
	tunMu.RLock()
	defer tunMu.RUnlock()
	return tuning.Camera
}

// GetThrowTuning возвращает настройки броска
func GetThrowTuning() ThrowTuning {
	tunMu.RLock()
	defer tunMu.RUnlock()
	return tuning.Throw
}

// GetPinTuning возвращает настройки кегли
func GetPinTuning() PinTuning {
	tunMu.RLock()
	defer tunMu.RUnlock()
	return tuning.Pin
}

// GetBallTuning возвращает настройки шара
func GetBallTuning() BallTuning {
	tunMu.RLock()
	defer tunMu.RUnlock()
	return tuning.Ball
}
