package world

import (
	"github.com/annel0/fuelcell/internal/physics"
	"github.com/annel0/fuelcell/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
)

// Layout параметры размещения сущностей в мировых координатах
type Layout struct {
	Pitch        mgl32.Vec3             // Шаг сетки по осям
	BlockScale   float32                // Масштаб блока
	StarScale    float32                // Масштаб звезды
	GoombaScale  float32                // Масштаб гумбы
	PickupSphere physics.BoundingSphere // Сфера, заменяющая сферу меша у объектов сетки

	CastlePosition mgl32.Vec3
	SignPosition   mgl32.Vec3
}

// PitchFactors множители габаритов блока для шага сетки
var PitchFactors = mgl32.Vec3{2, 3, 4}

// DefaultLayout строит раскладку по габаритам меша блока. Шаг одинаков для
// всех типов сущностей и не зависит от их собственных размеров.
func DefaultLayout(blockDimensions mgl32.Vec3) Layout {
	const blockScale = 1

	scaled := blockDimensions.Mul(blockScale)
	return Layout{
		Pitch: mgl32.Vec3{
			scaled.X() * PitchFactors.X(),
			scaled.Y() * PitchFactors.Y(),
			scaled.Z() * PitchFactors.Z(),
		},
		BlockScale:     blockScale,
		StarScale:      0.07,
		GoombaScale:    0.008,
		PickupSphere:   physics.BoundingSphere{Radius: 16},
		CastlePosition: mgl32.Vec3{0, -100, -320},
		SignPosition:   mgl32.Vec3{60, 4, 60},
	}
}

// CellPosition мировая позиция ячейки. Предметы и враги на полу
// приподнимаются на половину вертикального шага.
func (l Layout) CellPosition(p vec.Vec3, c Cell) mgl32.Vec3 {
	pos := p.Scale(l.Pitch)
	if p.OnFloor() && (c == CellStar || c == CellGoomba) {
		pos[1] += l.FloorOffset()
	}
	return pos
}

// FloorOffset вертикальный подъём предметов на полу
func (l Layout) FloorOffset() float32 {
	return l.Pitch.Y() / 2
}

func uniformScale(s float32) mgl32.Vec3 {
	return mgl32.Vec3{s, s, s}
}
