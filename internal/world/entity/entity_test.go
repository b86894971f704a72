package entity

import (
	"testing"

	"github.com/annel0/fuelcell/internal/content"
	"github.com/annel0/fuelcell/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitMesh(t *testing.T) *content.Mesh {
	t.Helper()
	// Куб от -1 до 1: сфера меша с центром в 0
	return content.NewMesh("unit", []mgl32.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
	})
}

func TestNew_RejectsEmptyMesh(t *testing.T) {
	_, err := New(1, KindBlock, &content.Mesh{Name: "empty"})
	assert.ErrorIs(t, err, content.ErrAssetMissing)
}

func TestEntity_AbsoluteDimensions(t *testing.T) {
	mesh := content.NewMesh("box", []mgl32.Vec3{{-2, 0, -4}, {3, 10, 4}})
	e, err := New(1, KindBlock, mesh)
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec3{5, 10, 8}, e.AbsoluteDimensions())

	// Габариты не зависят от позиции и масштаба
	e.SetPosition(mgl32.Vec3{100, 100, 100})
	e.SetScale(mgl32.Vec3{2, 2, 2})
	assert.Equal(t, mgl32.Vec3{5, 10, 8}, e.AbsoluteDimensions())
}

func TestEntity_BoundingSphereFollowsPosition(t *testing.T) {
	e, err := New(1, KindStar, unitMesh(t))
	require.NoError(t, err)

	e.SetPosition(mgl32.Vec3{3, 4, 5})
	assert.Equal(t, mgl32.Vec3{3, 4, 5}, e.BoundingSphere().Center, "Сфера должна сдвигаться на текущую позицию")
}

func TestEntity_SphereOverrideAndClear(t *testing.T) {
	e, err := New(1, KindStar, unitMesh(t))
	require.NoError(t, err)
	e.SetPosition(mgl32.Vec3{1, 2, 3})

	derived := e.BoundingSphere()

	e.SetBoundingSphere(physics.BoundingSphere{Radius: 16})
	assert.True(t, e.HasSphereOverride())
	assert.Equal(t, float32(16), e.BoundingSphere().Radius)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, e.BoundingSphere().Center, "Заданная сфера тоже сдвигается")

	e.ClearBoundingSphere()
	assert.Equal(t, derived, e.BoundingSphere(), "После сброса должна вернуться сфера меша")
}

func TestEntity_Collides(t *testing.T) {
	e, err := New(1, KindStar, unitMesh(t))
	require.NoError(t, err)
	e.SetBoundingSphere(physics.BoundingSphere{Radius: 1})

	near := physics.BoundingSphere{Center: mgl32.Vec3{0.5, 0, 0}, Radius: 1}
	far := physics.BoundingSphere{Center: mgl32.Vec3{10, 0, 0}, Radius: 1}

	assert.True(t, e.Collides(near))
	assert.False(t, e.Collides(far))
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, e.Position(), "Collides не должен ничего менять")
}

func TestEntity_CollisionBoxRebasedWithoutDoubleTranslation(t *testing.T) {
	e, err := New(1, KindBlock, unitMesh(t))
	require.NoError(t, err)

	e.SetPosition(mgl32.Vec3{10, 0, 0})
	e.SetCollisionBox(physics.BoundingBox{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}})
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, e.CollisionBox().Min)

	e.SetPosition(mgl32.Vec3{20, 0, 0})
	e.SetPosition(mgl32.Vec3{30, 0, 0})
	box := e.CollisionBox()
	assert.Equal(t, mgl32.Vec3{30, 0, 0}, box.Min, "Коробка должна следовать за позицией ровно один раз")
	assert.Equal(t, mgl32.Vec3{31, 1, 1}, box.Max)
}

func TestEntity_OnCollideOrder(t *testing.T) {
	e, err := New(7, KindStar, unitMesh(t))
	require.NoError(t, err)

	var calls []string
	e.AddResponder(func(got *Entity) {
		assert.Same(t, e, got)
		calls = append(calls, "first")
	})
	e.AddResponder(func(*Entity) { calls = append(calls, "second") })

	assert.True(t, e.HasCollisionResponse())
	e.OnCollide()
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestSpinBehavior(t *testing.T) {
	e, err := New(1, KindStar, unitMesh(t))
	require.NoError(t, err)
	e.SetUpdater(NewSpinBehavior())
	require.True(t, e.Updatable())

	for i := 0; i < 60; i++ {
		e.Update(1.0 / 60.0)
	}

	assert.InDelta(t, 1.0, e.Rotation().X(), 1e-4, "За 60 кадров звезда поворачивается на 1 радиан")
	assert.NotEqual(t, mgl32.Ident4(), e.Transform(), "Матрица должна быть пересчитана")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "star", KindStar.String())
	assert.Equal(t, "goomba", KindGoomba.String())
	assert.Equal(t, "unknown", Kind(200).String())
}

func TestFollowBehavior(t *testing.T) {
	target, err := New(1, KindPlayer, unitMesh(t))
	require.NoError(t, err)
	sky, err := New(2, KindSkybox, unitMesh(t))
	require.NoError(t, err)

	sky.SetUpdater(FollowBehavior{Target: target})
	target.SetPosition(mgl32.Vec3{5, 6, 7})
	sky.Update(1.0 / 60)

	assert.Equal(t, mgl32.Vec3{5, 6, 7}, sky.Position())
	assert.Equal(t, mgl32.Translate3D(5, 6, 7), sky.Transform())
}
