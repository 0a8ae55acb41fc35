package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// inertiaFactor грубый коэффициент момента инерции формы.
// Точная тензорная инерция для мини-игры не нужна.
func inertiaFactor(s *ShapeDescriptor) float64 {
	switch s.Kind {
	case SPHERE:
		r := s.Sphere.Radius
		return 0.4 * r * r
	case CYLINDER:
		r := s.Cylinder.Radius
		h := s.Cylinder.Height
		return (3*r*r + h*h) / 12
	}
	return 1.0
}

// integrateOrientation интегрирует ориентацию по угловой скорости:
// dq = 0.5 * (0, w) * q * dt
func integrateOrientation(q mgl64.Quat, omega mgl64.Vec3, dt float64) mgl64.Quat {
	if omega.Len() <= 1e-12 {
		return q
	}
	wq := mgl64.Quat{W: 0, V: omega}
	dq := wq.Mul(q)
	q.W += 0.5 * dt * dq.W
	q.V = q.V.Add(dq.V.Mul(0.5 * dt))
	return q.Normalize()
}

// EulerAngles извлекает углы Эйлера (радианы, оси X/Y/Z) из кватерниона
func EulerAngles(q mgl64.Quat) mgl64.Vec3 {
	x, y, z, w := q.X(), q.Y(), q.Z(), q.W

	sinP := 2 * (w*y - z*x)
	if sinP > 1 {
		sinP = 1
	} else if sinP < -1 {
		sinP = -1
	}

	return mgl64.Vec3{
		math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)),
		math.Asin(sinP),
		math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)),
	}
}

// raySphere пересечение луча со сферой, возвращает параметр t вдоль луча
func raySphere(origin, dir, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	bHalf := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := bHalf*bHalf - c
	if disc < 0 {
		return 0, false
	}
	sqrtD := math.Sqrt(disc)
	t := -bHalf - sqrtD
	if t < 0 {
		t = -bHalf + sqrtD
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// rayAABB пересечение луча с коробкой, выровненной по осям (метод слэбов).
// Стены желоба и дорожка не вращаются, этого достаточно.
func rayAABB(origin, dir, center mgl64.Vec3, box *BoxData) (float64, bool) {
	half := mgl64.Vec3{box.Width / 2, box.Height / 2, box.Depth / 2}
	min := center.Sub(half)
	max := center.Add(half)

	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < min[i] || origin[i] > max[i] {
				return 0, false
			}
			continue
		}
		t1 := (min[i] - origin[i]) / dir[i]
		t2 := (max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return tMax, true
	}
	return tMin, true
}
