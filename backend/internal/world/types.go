package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"x-lanes/backend/internal/physics"
)

// Object объект игровой сцены: пара меш/тело.
// Геометрию рендерит клиент, сервер хранит привязку меша к телу
// и позу покоя для сброса дорожки.
type Object struct {
	ID          string
	Mesh        string // имя меша из каталога ассетов
	Color       string
	Shape       *physics.ShapeDescriptor
	Mass        float64
	Restitution float64

	// Поза покоя: кегли сбрасываются на место, а не пересоздаются
	RestPosition    mgl64.Vec3
	RestOrientation mgl64.Quat
}

// Kind классификация объекта сцены для клиента
func (o *Object) Kind() string {
	switch o.Shape.Kind {
	case physics.SPHERE:
		return "ball"
	case physics.CYLINDER:
		return "pin"
	case physics.CAPSULE:
		return "player"
	case physics.BOX:
		return "box"
	}
	return "unknown"
}
