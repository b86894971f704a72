package entity

import "github.com/go-gl/mathgl/mgl32"

// StarSpinRate прирост угла по X за кадр
const StarSpinRate = 1.0 / 60.0

// SpinBehavior вращает сущность вокруг оси X на фиксированный угол каждый кадр
type SpinBehavior struct {
	RatePerFrame float32
}

// NewSpinBehavior создаёт вращение звезды
func NewSpinBehavior() *SpinBehavior {
	return &SpinBehavior{RatePerFrame: StarSpinRate}
}

// Update поворачивает сущность и пересчитывает её матрицу
func (b *SpinBehavior) Update(e *Entity, dt float64) {
	e.SetRotation(e.Rotation().Add(mgl32.Vec3{b.RatePerFrame, 0, 0}))
	e.RecomputeTransform()
}

// Idle поведение без логики: объект участвует в проходе обновления,
// но ничего не делает (враги, небо)
var Idle Updater = UpdaterFunc(func(e *Entity, dt float64) {})

// Positioned источник позиции для следования
type Positioned interface {
	Position() mgl32.Vec3
}

// FollowBehavior держит сущность в позиции цели (небо вокруг игрока)
type FollowBehavior struct {
	Target Positioned
}

// Update переносит сущность в позицию цели
func (b FollowBehavior) Update(e *Entity, dt float64) {
	if b.Target == nil {
		return
	}
	e.SetPosition(b.Target.Position())
	e.RecomputeTransform()
}
