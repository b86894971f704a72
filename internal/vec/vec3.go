package vec

import "github.com/go-gl/mathgl/mgl32"

// Vec3 представляет индекс ячейки сетки мира (целочисленные координаты)
type Vec3 struct {
	X int
	Y int
	Z int
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Below возвращает ячейку непосредственно под текущей
func (v Vec3) Below() Vec3 {
	return Vec3{X: v.X, Y: v.Y - 1, Z: v.Z}
}

// OnFloor сообщает, лежит ли ячейка на уровне пола (y == 0)
func (v Vec3) OnFloor() bool {
	return v.Y == 0
}

// Scale переводит индекс ячейки в мировые координаты с шагом pitch по каждой оси
func (v Vec3) Scale(pitch mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(v.X) * pitch.X(),
		float32(v.Y) * pitch.Y(),
		float32(v.Z) * pitch.Z(),
	}
}
