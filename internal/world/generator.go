package world

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/annel0/fuelcell/internal/logging"
	"github.com/annel0/fuelcell/internal/vec"
)

// DefaultMaxAttempts предел попыток выборки на одно размещение
const DefaultMaxAttempts = 100000

// Targets целевые количества объектов
type Targets struct {
	Blocks  int
	Stars   int
	Enemies int
}

// Total возвращает общее число размещаемых объектов
func (t Targets) Total() int {
	return t.Blocks + t.Stars + t.Enemies
}

// Capacity число ячеек, доступных выборке: по каждой оси индексы [0, dim-2],
// последний слой сетки никогда не заполняется
func Capacity(width, height, depth int) int {
	if width < 2 || height < 2 || depth < 2 {
		return 0
	}
	return (width - 1) * (height - 1) * (depth - 1)
}

// Planner заполняет сетку случайным размещением с отбраковкой
type Planner struct {
	Seed        int64 // Сид генератора
	MaxAttempts int   // Предел попыток на одно размещение

	rng        *rand.Rand
	rejections uint64
}

// NewPlanner создаёт планировщик. seed == 0 означает сид от текущего времени,
// maxAttempts <= 0 заменяется на DefaultMaxAttempts.
func NewPlanner(seed int64, maxAttempts int) *Planner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Planner{
		Seed:        seed,
		MaxAttempts: maxAttempts,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Rejections возвращает число отбракованных выборок за всё время жизни планировщика
func (p *Planner) Rejections() uint64 {
	return p.rejections
}

// Populate размещает блоки и звёзды (свободное размещение), затем врагов
// (только на поверхности). Счётчики в результате точно равны целям либо
// возвращается ошибка ErrConstraintUnsatisfiable.
func (p *Planner) Populate(g *Grid, t Targets) error {
	if t.Blocks < 0 || t.Stars < 0 || t.Enemies < 0 {
		return fmt.Errorf("negative targets %+v: %w", t, ErrConstraintUnsatisfiable)
	}

	capacity := Capacity(g.Width, g.Height, g.Depth)
	if t.Total() > capacity {
		return fmt.Errorf("targets %d exceed grid capacity %d: %w", t.Total(), capacity, ErrConstraintUnsatisfiable)
	}

	// Блоки и звёзды в одном цикле: первые t.Blocks ячеек получают блоки
	for cell := 0; cell < t.Blocks+t.Stars; cell++ {
		slot, err := p.chooseSlot(g, false)
		if err != nil {
			return fmt.Errorf("placing cell %d: %w", cell, err)
		}

		if cell < t.Blocks {
			g.Set(slot, CellBlock)
		} else {
			g.Set(slot, CellStar)
		}
	}

	// Враги ставятся после блоков, чтобы иметь опору
	for enemy := 0; enemy < t.Enemies; enemy++ {
		slot, err := p.chooseSlot(g, true)
		if err != nil {
			return fmt.Errorf("placing enemy %d: %w", enemy, err)
		}
		g.Set(slot, CellGoomba)
	}

	logging.Debug("🎲 Сетка %dx%dx%d заполнена: блоков=%d звёзд=%d врагов=%d, отбраковок=%d",
		g.Width, g.Height, g.Depth, t.Blocks, t.Stars, t.Enemies, p.rejections)

	return nil
}

// chooseSlot выбирает свободную ячейку. При surface ячейка должна лежать
// на полу (y == 0) или прямо над блоком.
func (p *Planner) chooseSlot(g *Grid, surface bool) (vec.Vec3, error) {
	if Capacity(g.Width, g.Height, g.Depth) == 0 {
		return vec.Vec3{}, fmt.Errorf("grid %dx%dx%d too small: %w", g.Width, g.Height, g.Depth, ErrConstraintUnsatisfiable)
	}

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		slot := vec.Vec3{
			X: p.rng.Intn(g.Width - 1),
			Y: p.rng.Intn(g.Height - 1),
			Z: p.rng.Intn(g.Depth - 1),
		}

		if Acceptable(g, slot, surface) {
			return slot, nil
		}
		p.rejections++
	}

	return vec.Vec3{}, fmt.Errorf("no free slot after %d attempts (surface=%v): %w", p.MaxAttempts, surface, ErrConstraintUnsatisfiable)
}

// Acceptable проверяет правило размещения для ячейки
func Acceptable(g *Grid, slot vec.Vec3, surface bool) bool {
	if g.At(slot) != CellEmpty {
		return false
	}
	if !surface || slot.OnFloor() {
		return true
	}
	return g.At(slot.Below()) == CellBlock
}
