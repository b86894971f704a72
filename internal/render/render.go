// Package render описывает границу с графическим коллаборатором: ядро
// передаёт на каждый видимый объект мировую матрицу, меш и материалы,
// а отправка в GPU и проекция камеры остаются за реализацией Renderer.
package render

import (
	"sync"

	"github.com/annel0/fuelcell/internal/content"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawItem один объект кадра
type DrawItem struct {
	EntityID  uint64
	Kind      string
	Transform mgl32.Mat4
	Mesh      *content.Mesh
	Materials map[int]content.Texture
	Label     string // Текст для табличек
}

// Renderer принимает объекты кадра в порядке отрисовки
type Renderer interface {
	BeginFrame()
	Draw(item DrawItem)
	EndFrame()
}

// Recorder сохраняет последний полный кадр
type Recorder struct {
	mu      sync.Mutex
	current []DrawItem
	last    []DrawItem
	frames  int
}

// BeginFrame начинает новый кадр
func (r *Recorder) BeginFrame() {
	r.mu.Lock()
	r.current = r.current[:0]
	r.mu.Unlock()
}

// Draw добавляет объект в текущий кадр
func (r *Recorder) Draw(item DrawItem) {
	r.mu.Lock()
	r.current = append(r.current, item)
	r.mu.Unlock()
}

// EndFrame фиксирует кадр
func (r *Recorder) EndFrame() {
	r.mu.Lock()
	r.last = append(r.last[:0], r.current...)
	r.frames++
	r.mu.Unlock()
}

// LastFrame возвращает копию последнего завершённого кадра
func (r *Recorder) LastFrame() []DrawItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]DrawItem, len(r.last))
	copy(out, r.last)
	return out
}

// Frames число завершённых кадров
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Discard отбрасывает все объекты
type Discard struct{}

func (Discard) BeginFrame() {}

func (Discard) Draw(DrawItem) {}

func (Discard) EndFrame() {}
