package world

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"x-lanes/backend/internal/physics"
)

// Factory создает объекты сцены и соответствующие им тела
// в физическом мире.
type Factory struct {
	manager *Manager
	phys    *physics.World
}

// NewFactory создает новый экземпляр Factory
func NewFactory(manager *Manager, phys *physics.World) *Factory {
	return &Factory{
		manager: manager,
		phys:    phys,
	}
}

// Create добавляет объект в сцену и создает для него твердое тело
func (f *Factory) Create(obj *Object) error {
	f.manager.AddObject(obj)

	body := physics.NewBody(obj.ID, obj.Shape, obj.Mass, obj.Restitution, obj.RestPosition)
	body.Orientation = obj.RestOrientation
	if obj.Mass <= 0 {
		body.Motion = physics.MotionStatic
	}
	if err := f.phys.AddBody(body); err != nil {
		log.Printf("[World] Ошибка создания тела для %s: %v", obj.ID, err)
		return err
	}

	log.Printf("[World] Создан объект %s (%s) в координатах (%.2f, %.2f, %.2f)",
		obj.ID, obj.Kind(), obj.RestPosition.X(), obj.RestPosition.Y(), obj.RestPosition.Z())
	return nil
}

// NewBall создает шар для броска
func NewBall(id string, position mgl64.Vec3, radius, mass float64, color string) *Object {
	tuning := GetBallTuning()
	return &Object{
		ID:              id,
		Mesh:            "ball",
		Color:           color,
		Shape:           physics.NewSphereShape(radius),
		Mass:            mass,
		Restitution:     tuning.Restitution,
		RestPosition:    position,
		RestOrientation: mgl64.QuatIdent(),
	}
}

// NewPin создает кеглю
func NewPin(id string, position mgl64.Vec3) *Object {
	tuning := GetPinTuning()
	return &Object{
		ID:              id,
		Mesh:            "pin",
		Color:           "#ffffff",
		Shape:           physics.NewCylinderShape(tuning.Radius, tuning.Height),
		Mass:            tuning.Mass,
		Restitution:     tuning.Restitution,
		RestPosition:    position,
		RestOrientation: mgl64.QuatIdent(),
	}
}

// NewPlayerCapsule создает капсулу персонажа
func NewPlayerCapsule(id string, position mgl64.Vec3) *Object {
	return &Object{
		ID:              id,
		Mesh:            "player",
		Color:           "#d08040",
		Shape:           physics.NewCapsuleShape(0.35, 1.8),
		Mass:            70,
		Restitution:     0.0,
		RestPosition:    position,
		RestOrientation: mgl64.QuatIdent(),
	}
}

// NewStaticBox создает статическую коробку (дорожка, стены желоба)
func NewStaticBox(id string, position mgl64.Vec3, width, height, depth float64, color string) *Object {
	return &Object{
		ID:              id,
		Mesh:            "box",
		Color:           color,
		Shape:           physics.NewBoxShape(width, height, depth),
		Mass:            0, // статическое тело
		Restitution:     0.2,
		RestPosition:    position,
		RestOrientation: mgl64.QuatIdent(),
	}
}
