package world

import "github.com/annel0/fuelcell/internal/vec"

// Cell классификация ячейки сетки мира
type Cell uint8

const (
	CellEmpty  Cell = iota // Пусто
	CellBlock              // Статичный твёрдый блок
	CellStar               // Собираемая звезда
	CellGoomba             // Враг
)

// String возвращает имя классификации
func (c Cell) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellBlock:
		return "block"
	case CellStar:
		return "star"
	case CellGoomba:
		return "goomba"
	default:
		return "unknown"
	}
}

// Grid трёхмерный массив классификаций width x height x depth.
// Заполняется планировщиком один раз и один раз читается менеджером.
type Grid struct {
	Width  int
	Height int
	Depth  int
	cells  []Cell
}

// BuildGrid выделяет сетку, заполненную CellEmpty
func BuildGrid(width, height, depth int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if depth < 0 {
		depth = 0
	}

	return &Grid{
		Width:  width,
		Height: height,
		Depth:  depth,
		cells:  make([]Cell, width*height*depth),
	}
}

// InBounds проверяет, лежит ли ячейка внутри сетки
func (g *Grid) InBounds(p vec.Vec3) bool {
	return p.X >= 0 && p.X < g.Width &&
		p.Y >= 0 && p.Y < g.Height &&
		p.Z >= 0 && p.Z < g.Depth
}

func (g *Grid) index(p vec.Vec3) int {
	return (p.X*g.Height+p.Y)*g.Depth + p.Z
}

// At возвращает классификацию ячейки; вне сетки всегда CellEmpty
func (g *Grid) At(p vec.Vec3) Cell {
	if !g.InBounds(p) {
		return CellEmpty
	}
	return g.cells[g.index(p)]
}

// Set записывает классификацию; вне сетки запись игнорируется
func (g *Grid) Set(p vec.Vec3, c Cell) {
	if !g.InBounds(p) {
		return
	}
	g.cells[g.index(p)] = c
}

// Count считает ячейки с заданной классификацией
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, cell := range g.cells {
		if cell == c {
			n++
		}
	}
	return n
}

// Each обходит все ячейки в порядке x, затем y, затем z
func (g *Grid) Each(fn func(p vec.Vec3, c Cell)) {
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			for z := 0; z < g.Depth; z++ {
				p := vec.Vec3{X: x, Y: y, Z: z}
				fn(p, g.cells[g.index(p)])
			}
		}
	}
}

// Clear сбрасывает все ячейки в CellEmpty
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = CellEmpty
	}
}
