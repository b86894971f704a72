package player

import (
	"github.com/annel0/fuelcell/internal/content"
	"github.com/annel0/fuelcell/internal/physics"
	"github.com/annel0/fuelcell/internal/world/entity"
	"github.com/go-gl/mathgl/mgl32"
)

// ID зарезервированный идентификатор сущности игрока
const ID = 1

// Границы показателей игрока
const (
	MinVital = 0
	MaxVital = 100
)

// DefaultStart стартовая позиция игрока
var DefaultStart = mgl32.Vec3{60, 2, 75}

// DefaultSpeed скорость в мировых единицах в секунду
const DefaultSpeed = 40

// Obstacles отвечает на вопрос, занята ли область твёрдыми объектами
type Obstacles interface {
	BlockedBy(box physics.BoundingBox) bool
}

// Controller выдаёт желаемое направление движения за кадр.
// Длина вектора не больше 1, Y задаёт движение по вертикали.
type Controller interface {
	Intent(dt float64) mgl32.Vec3
}

// ControllerFunc адаптер функции к Controller
type ControllerFunc func(dt float64) mgl32.Vec3

// Intent вызывает f(dt)
func (f ControllerFunc) Intent(dt float64) mgl32.Vec3 { return f(dt) }

// Player сущность игрока с показателями и управлением
type Player struct {
	*entity.Entity

	Energy     int
	Adrenaline int
	Speed      float32

	controllable bool
	controller   Controller
	obstacles    Obstacles
}

// New создаёт игрока в позиции start с полными показателями.
// Управление выключено до SetControllable(true).
func New(mesh *content.Mesh, start mgl32.Vec3) (*Player, error) {
	e, err := entity.New(ID, entity.KindPlayer, mesh)
	if err != nil {
		return nil, err
	}

	p := &Player{
		Entity: e,
		Speed:  DefaultSpeed,
	}
	p.Reset(start)
	e.SetUpdater(entity.UpdaterFunc(p.update))
	return p, nil
}

// Reset возвращает игрока в позицию start и восстанавливает показатели
func (p *Player) Reset(start mgl32.Vec3) {
	p.SetPosition(start)
	p.SetRotation(mgl32.Vec3{})
	p.RecomputeTransform()
	p.ResetVitals()
}

// ResetVitals восстанавливает энергию и адреналин до максимума
func (p *Player) ResetVitals() {
	p.Energy = MaxVital
	p.Adrenaline = MaxVital
}

// AdjustVitals меняет показатели с ограничением [MinVital, MaxVital]
func (p *Player) AdjustVitals(energy, adrenaline int) {
	p.Energy = clamp(p.Energy + energy)
	p.Adrenaline = clamp(p.Adrenaline + adrenaline)
}

// SetControllable включает и выключает управление
func (p *Player) SetControllable(v bool) {
	p.controllable = v
}

// Controllable сообщает, принимает ли игрок управление
func (p *Player) Controllable() bool {
	return p.controllable
}

// SetController задаёт источник управления
func (p *Player) SetController(c Controller) {
	p.controller = c
}

// SetObstacles задаёт препятствия для движения
func (p *Player) SetObstacles(o Obstacles) {
	p.obstacles = o
}

// update двигает игрока по намерению контроллера. Каждая ось проверяется
// отдельно, поэтому игрок скользит вдоль блоков.
func (p *Player) update(e *entity.Entity, dt float64) {
	if !p.controllable || p.controller == nil {
		return
	}

	intent := p.controller.Intent(dt)
	if l := intent.Len(); l > 1 {
		intent = intent.Mul(1 / l)
	}
	step := intent.Mul(p.Speed * float32(dt))
	if step.ApproxEqual(mgl32.Vec3{}) {
		return
	}

	pos := p.Position()
	for axis := 0; axis < 3; axis++ {
		if step[axis] == 0 {
			continue
		}
		candidate := pos
		candidate[axis] += step[axis]
		if axis == 1 && candidate[axis] < 0 {
			candidate[axis] = 0
		}
		if p.obstacles != nil && p.obstacles.BlockedBy(p.LocalCollisionBox().Translate(candidate)) {
			continue
		}
		pos = candidate
	}

	p.SetPosition(pos)
	p.RecomputeTransform()
}

func clamp(v int) int {
	if v < MinVital {
		return MinVital
	}
	if v > MaxVital {
		return MaxVital
	}
	return v
}
