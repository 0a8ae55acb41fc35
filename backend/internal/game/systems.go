package game

import (
	"time"

	"x-lanes/backend/internal/physics"
)

// PhysicsSystem продвигает физический мир на дельту тика
type PhysicsSystem struct {
	world *physics.World
}

// NewPhysicsSystem создает систему физики
func NewPhysicsSystem(world *physics.World) *PhysicsSystem {
	return &PhysicsSystem{world: world}
}

func (p *PhysicsSystem) Update(deltaTime time.Duration) error {
	p.world.Step(deltaTime.Seconds())
	return nil
}

func (p *PhysicsSystem) GetName() string {
	return "Physics"
}

// GetPriority физика идет после сессии, до камеры
func (p *PhysicsSystem) GetPriority() int {
	return 20
}

// CameraSystem двигает риг слежения после шага физики
type CameraSystem struct {
	rig *FollowRig
}

// NewCameraSystem создает систему камеры
func NewCameraSystem(rig *FollowRig) *CameraSystem {
	return &CameraSystem{rig: rig}
}

func (c *CameraSystem) Update(deltaTime time.Duration) error {
	c.rig.Update()
	return nil
}

func (c *CameraSystem) GetName() string {
	return "Camera"
}

// GetPriority камера читает позиции после интеграции
func (c *CameraSystem) GetPriority() int {
	return 30
}
