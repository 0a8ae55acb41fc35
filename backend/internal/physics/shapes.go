package physics

// ShapeKind тип коллизионной формы тела
type ShapeKind int

const (
	SPHERE ShapeKind = iota
	BOX
	CYLINDER
	CAPSULE
)

// ShapeDescriptor описывает коллизионную форму тела.
// Заполняется только поле, соответствующее Kind.
type ShapeDescriptor struct {
	Kind     ShapeKind
	Sphere   *SphereData
	Box      *BoxData
	Cylinder *CylinderData
	Capsule  *CapsuleData
}

// SphereData параметры сферы (шар)
type SphereData struct {
	Radius float64
}

// BoxData параметры коробки (дорожка, стены желоба)
type BoxData struct {
	Width  float64
	Height float64
	Depth  float64
}

// CylinderData параметры цилиндра (кегля)
type CylinderData struct {
	Radius float64
	Height float64
}

// CapsuleData параметры капсулы (персонаж)
type CapsuleData struct {
	Radius float64
	Height float64 // полная высота, включая полусферы
}

// NewSphereShape создает дескриптор сферы
func NewSphereShape(radius float64) *ShapeDescriptor {
	return &ShapeDescriptor{Kind: SPHERE, Sphere: &SphereData{Radius: radius}}
}

// NewBoxShape создает дескриптор коробки
func NewBoxShape(width, height, depth float64) *ShapeDescriptor {
	return &ShapeDescriptor{Kind: BOX, Box: &BoxData{Width: width, Height: height, Depth: depth}}
}

// NewCylinderShape создает дескриптор цилиндра
func NewCylinderShape(radius, height float64) *ShapeDescriptor {
	return &ShapeDescriptor{Kind: CYLINDER, Cylinder: &CylinderData{Radius: radius, Height: height}}
}

// NewCapsuleShape создает дескриптор капсулы
func NewCapsuleShape(radius, height float64) *ShapeDescriptor {
	return &ShapeDescriptor{Kind: CAPSULE, Capsule: &CapsuleData{Radius: radius, Height: height}}
}

// halfHeight возвращает расстояние от центра тела до нижней точки формы
func (s *ShapeDescriptor) halfHeight() float64 {
	switch s.Kind {
	case SPHERE:
		return s.Sphere.Radius
	case BOX:
		return s.Box.Height / 2
	case CYLINDER:
		return s.Cylinder.Height / 2
	case CAPSULE:
		return s.Capsule.Height / 2
	}
	return 0
}

// collisionRadius возвращает радиус для попарных столкновений в горизонтальной плоскости
func (s *ShapeDescriptor) collisionRadius() float64 {
	switch s.Kind {
	case SPHERE:
		return s.Sphere.Radius
	case BOX:
		if s.Box.Width > s.Box.Depth {
			return s.Box.Width / 2
		}
		return s.Box.Depth / 2
	case CYLINDER:
		return s.Cylinder.Radius
	case CAPSULE:
		return s.Capsule.Radius
	}
	return 0
}

// tumbles сообщает, интегрируется ли ориентация формы при симуляции.
// Капсула персонажа всегда остается вертикальной, ее ориентацией
// управляет контроллер движения, а не физика.
func (s *ShapeDescriptor) tumbles() bool {
	return s.Kind == SPHERE || s.Kind == CYLINDER
}
