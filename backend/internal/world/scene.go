package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Идентификаторы объектов сцены
const (
	BallID   = "ball"
	PlayerID = "player"
	LaneID   = "lane"
)

// PinID возвращает идентификатор кегли по номеру 1..10
func PinID(n int) string {
	return fmt.Sprintf("pin_%d", n)
}

// pinFormation стандартная расстановка десяти кегель треугольником.
// Ряды уходят вглубь дорожки по z.
func pinFormation(pinHalfHeight float64) []mgl64.Vec3 {
	const (
		baseZ   = 16.0
		rowStep = 0.52
		colStep = 0.55
	)

	var positions []mgl64.Vec3
	n := 0
	for row := 0; row < 4; row++ {
		count := row + 1
		z := baseZ + float64(row)*rowStep
		x0 := -float64(count-1) * colStep / 2
		for i := 0; i < count; i++ {
			positions = append(positions, mgl64.Vec3{x0 + float64(i)*colStep, pinHalfHeight, z})
			n++
		}
	}
	return positions
}

// BuildLaneScene строит сцену боулинга: дорожку, стены желоба,
// ровно один шар, ровно десять кегель и капсулу персонажа.
func BuildLaneScene(f *Factory) error {
	throw := GetThrowTuning()
	pin := GetPinTuning()
	ball := GetBallTuning()

	// Дорожка и стены желоба
	if err := f.Create(NewStaticBox(LaneID, mgl64.Vec3{0, -0.25, 9}, 6, 0.5, 24, "#b08d57")); err != nil {
		return err
	}
	if err := f.Create(NewStaticBox("gutter_left", mgl64.Vec3{-2.2, 0.25, 9}, 0.4, 0.5, 24, "#333333")); err != nil {
		return err
	}
	if err := f.Create(NewStaticBox("gutter_right", mgl64.Vec3{2.2, 0.25, 9}, 0.4, 0.5, 24, "#333333")); err != nil {
		return err
	}

	// Шар на точке запуска
	if err := f.Create(NewBall(BallID, throw.BallLaunch, ball.Radius, ball.Mass, "#2040c0")); err != nil {
		return err
	}

	// Десять кегель треугольником
	for i, pos := range pinFormation(pin.Height / 2) {
		if err := f.Create(NewPin(PinID(i+1), pos)); err != nil {
			return err
		}
	}

	// Персонаж сбоку от зоны разбега
	if err := f.Create(NewPlayerCapsule(PlayerID, mgl64.Vec3{-1.2, 0.9, -1.5})); err != nil {
		return err
	}

	return nil
}
