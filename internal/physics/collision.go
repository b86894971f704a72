package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BoundingSphere представляет ограничивающую сферу
type BoundingSphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Translate возвращает сферу, сдвинутую на offset
func (s BoundingSphere) Translate(offset mgl32.Vec3) BoundingSphere {
	return BoundingSphere{Center: s.Center.Add(offset), Radius: s.Radius}
}

// Transform применяет матрицу к сфере. Радиус масштабируется по наибольшему
// коэффициенту масштаба матрицы.
func (s BoundingSphere) Transform(m mgl32.Mat4) BoundingSphere {
	center := mgl32.TransformCoordinate(s.Center, m)

	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	scale := float32(math.Max(float64(sx), math.Max(float64(sy), float64(sz))))

	return BoundingSphere{Center: center, Radius: s.Radius * scale}
}

// Intersects проверяет пересечение двух сфер (касание считается пересечением)
func (s BoundingSphere) Intersects(other BoundingSphere) bool {
	r := s.Radius + other.Radius
	d := s.Center.Sub(other.Center)
	return d.Dot(d) <= r*r
}

// SphereFromPoints строит сферу вокруг набора точек: центр AABB точек и
// радиус до самой дальней точки. Для пустого набора возвращается нулевая сфера.
func SphereFromPoints(points []mgl32.Vec3) BoundingSphere {
	if len(points) == 0 {
		return BoundingSphere{}
	}

	box := BoxFromPoints(points)
	center := box.Center()

	var radiusSq float32
	for _, p := range points {
		d := p.Sub(center)
		if l := d.Dot(d); l > radiusSq {
			radiusSq = l
		}
	}

	return BoundingSphere{Center: center, Radius: float32(math.Sqrt(float64(radiusSq)))}
}

// BoundingBox представляет выровненный по осям прямоугольный параллелепипед (AABB)
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// BoxFromPoints возвращает минимальный AABB вокруг точек
func BoxFromPoints(points []mgl32.Vec3) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}

	min := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max := mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}

	for _, p := range points {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < min[axis] {
				min[axis] = p[axis]
			}
			if p[axis] > max[axis] {
				max[axis] = p[axis]
			}
		}
	}

	return BoundingBox{Min: min, Max: max}
}

// Translate возвращает коробку, сдвинутую на offset
func (b BoundingBox) Translate(offset mgl32.Vec3) BoundingBox {
	return BoundingBox{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Center возвращает центр коробки
func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size возвращает размеры коробки по осям
func (b BoundingBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Intersects проверяет пересечение двух AABB
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.Min.X() <= other.Max.X() && b.Max.X() >= other.Min.X() &&
		b.Min.Y() <= other.Max.Y() && b.Max.Y() >= other.Min.Y() &&
		b.Min.Z() <= other.Max.Z() && b.Max.Z() >= other.Min.Z()
}
