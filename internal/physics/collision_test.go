package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBoundingSphere_Intersects(t *testing.T) {
	pickup := BoundingSphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 1}

	near := BoundingSphere{Center: mgl32.Vec3{0.5, 0, 0}, Radius: 1}
	far := BoundingSphere{Center: mgl32.Vec3{10, 0, 0}, Radius: 1}
	touching := BoundingSphere{Center: mgl32.Vec3{2, 0, 0}, Radius: 1}

	assert.True(t, pickup.Intersects(near), "Сферы на расстоянии 0.5 должны пересекаться")
	assert.False(t, pickup.Intersects(far), "Сферы на расстоянии 10 не должны пересекаться")
	assert.True(t, pickup.Intersects(touching), "Касание считается пересечением")
}

func TestBoundingSphere_Transform(t *testing.T) {
	s := BoundingSphere{Center: mgl32.Vec3{1, 0, 0}, Radius: 2}

	m := mgl32.Translate3D(10, 0, 0).Mul4(mgl32.Scale3D(3, 3, 3))
	got := s.Transform(m)

	assert.InDelta(t, 13, got.Center.X(), 1e-5)
	assert.InDelta(t, 6, got.Radius, 1e-5, "Радиус масштабируется по наибольшей оси")
}

func TestSphereFromPoints(t *testing.T) {
	points := []mgl32.Vec3{{-1, -1, -1}, {1, 1, 1}, {1, -1, 1}}
	s := SphereFromPoints(points)

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, s.Center)
	assert.InDelta(t, 1.7320508, s.Radius, 1e-5)
	assert.Equal(t, BoundingSphere{}, SphereFromPoints(nil))
}

func TestBoundingBox_Intersects(t *testing.T) {
	a := BoundingBox{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{2, 2, 2}}
	b := a.Translate(mgl32.Vec3{1, 1, 1})
	c := a.Translate(mgl32.Vec3{5, 0, 0})

	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, a.Size())
}
