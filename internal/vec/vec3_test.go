package vec

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestVec3_Below(t *testing.T) {
	v := Vec3{X: 3, Y: 2, Z: 1}
	assert.Equal(t, Vec3{X: 3, Y: 1, Z: 1}, v.Below(), "Ячейка снизу должна иметь y-1")
	assert.False(t, v.OnFloor())
	assert.True(t, Vec3{X: 3, Z: 1}.OnFloor(), "y == 0 это пол")
}

func TestVec3_Scale(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 3}
	got := v.Scale(mgl32.Vec3{20, 30, 40})
	assert.Equal(t, mgl32.Vec3{20, 60, 120}, got)
}

func TestVec3_AddEquals(t *testing.T) {
	a := Vec3{X: 1, Y: 1, Z: 1}
	b := a.Add(Vec3{X: 1, Y: -1, Z: 0})
	assert.True(t, b.Equals(Vec3{X: 2, Y: 0, Z: 1}))
}
