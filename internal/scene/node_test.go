package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNode_NewIsIdentity(t *testing.T) {
	n := NewNode()
	assert.Equal(t, mgl32.Ident4(), n.Transform(), "Новый узел должен иметь единичную матрицу")
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, n.Scale())
}

func TestNode_TransformNotRecomputedImplicitly(t *testing.T) {
	n := NewNode()
	before := n.Transform()

	n.SetPosition(mgl32.Vec3{5, 6, 7})
	assert.Equal(t, before, n.Transform(), "Без RecomputeTransform матрица не должна меняться")

	n.RecomputeTransform()
	assert.Equal(t, mgl32.Vec3{5, 6, 7}, n.Transform().Col(3).Vec3(), "Перенос должен попасть в четвёртый столбец")
}

func TestNode_RecomputeIsIdempotent(t *testing.T) {
	n := NewNode()
	n.SetPosition(mgl32.Vec3{1.5, -2, 3.25})
	n.SetRotation(mgl32.Vec3{0.3, 1.1, -0.7})
	n.SetScale(mgl32.Vec3{0.07, 0.07, 0.07})

	n.RecomputeTransform()
	first := n.Transform()
	n.RecomputeTransform()
	second := n.Transform()

	assert.Equal(t, first, second, "Повторный пересчёт должен давать побитово одинаковый результат")
}

func TestNode_CompositionOrder(t *testing.T) {
	// Масштаб применяется раньше поворота, поворот раньше переноса
	m := Compose(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{0, 0, math.Pi / 2}, mgl32.Vec3{2, 1, 1})
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m)

	assert.InDelta(t, 10, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
}

func TestNode_RotationAxisOrder(t *testing.T) {
	// X применяется раньше Y: (0,1,0) -> X(90) -> (0,0,1) -> Y(90) -> (1,0,0)
	m := Compose(mgl32.Vec3{}, mgl32.Vec3{math.Pi / 2, math.Pi / 2, 0}, mgl32.Vec3{1, 1, 1})
	p := mgl32.TransformCoordinate(mgl32.Vec3{0, 1, 0}, m)

	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
}

