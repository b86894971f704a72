package entity

import (
	"fmt"

	"github.com/annel0/fuelcell/internal/content"
	"github.com/annel0/fuelcell/internal/physics"
	"github.com/annel0/fuelcell/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind представляет тип объекта мира
type Kind uint8

const (
	KindProp   Kind = iota // Декорация: пол, замок
	KindBlock              // Статичный твёрдый блок
	KindStar               // Собираемая звезда
	KindGoomba             // Враг
	KindPlayer             // Игрок
	KindSign               // Табличка с таблицей рекордов
	KindSkybox             // Небо
)

// String возвращает имя типа для логов и метрик
func (k Kind) String() string {
	switch k {
	case KindProp:
		return "prop"
	case KindBlock:
		return "block"
	case KindStar:
		return "star"
	case KindGoomba:
		return "goomba"
	case KindPlayer:
		return "player"
	case KindSign:
		return "sign"
	case KindSkybox:
		return "skybox"
	default:
		return "unknown"
	}
}

// Responder реакция на подтверждённое столкновение; получает саму сущность
type Responder func(e *Entity)

// Updater поведение, выполняемое каждый кадр
type Updater interface {
	Update(e *Entity, dt float64)
}

// UpdaterFunc адаптер функции к Updater
type UpdaterFunc func(e *Entity, dt float64)

// Update вызывает f(e, dt)
func (f UpdaterFunc) Update(e *Entity, dt float64) { f(e, dt) }

// Entity размещаемый объект с опциональным объёмом столкновений,
// списком реакций и покадровым поведением
type Entity struct {
	scene.Node

	ID        uint64
	Kind      Kind
	Mesh      *content.Mesh
	Materials map[int]content.Texture
	Label     string // Текст таблички

	sphereOverride *physics.BoundingSphere
	localBox       physics.BoundingBox
	dimensions     mgl32.Vec3
	responders     []Responder
	updater        Updater
}

// New создаёт сущность поверх меша. Габариты и коробка столкновений
// вычисляются один раз по вершинам первой части первого под-меша.
func New(id uint64, kind Kind, mesh *content.Mesh) (*Entity, error) {
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("entity %d (%s): %w", id, kind, err)
	}

	bounds := mesh.FirstPartBounds()
	size := bounds.Size()

	return &Entity{
		Node:       scene.NewNode(),
		ID:         id,
		Kind:       kind,
		Mesh:       mesh,
		Materials:  make(map[int]content.Texture),
		localBox:   bounds,
		dimensions: mgl32.Vec3{abs(size.X()), abs(size.Y()), abs(size.Z())},
	}, nil
}

// AbsoluteDimensions габариты меша по осям, посчитанные при создании
func (e *Entity) AbsoluteDimensions() mgl32.Vec3 {
	return e.dimensions
}

// BoundingSphere возвращает мировую сферу: заданную вручную или сферу
// первого под-меша, всегда сдвинутую на текущую позицию.
func (e *Entity) BoundingSphere() physics.BoundingSphere {
	base := e.Mesh.FirstSphere()
	if e.sphereOverride != nil {
		base = *e.sphereOverride
	}
	return base.Translate(e.Position())
}

// SetBoundingSphere полностью заменяет сферу меша (в локальных координатах)
func (e *Entity) SetBoundingSphere(s physics.BoundingSphere) {
	e.sphereOverride = &s
}

// ClearBoundingSphere возвращает сферу меша
func (e *Entity) ClearBoundingSphere() {
	e.sphereOverride = nil
}

// HasSphereOverride сообщает, задана ли сфера вручную
func (e *Entity) HasSphereOverride() bool {
	return e.sphereOverride != nil
}

// SetCollisionBox задаёт коробку в локальных координатах сущности.
// Мировая коробка получается сдвигом на позицию при каждом чтении.
func (e *Entity) SetCollisionBox(box physics.BoundingBox) {
	e.localBox = box
}

// CollisionBox возвращает коробку столкновений в мировых координатах
func (e *Entity) CollisionBox() physics.BoundingBox {
	return e.localBox.Translate(e.Position())
}

// LocalCollisionBox возвращает коробку в локальных координатах
func (e *Entity) LocalCollisionBox() physics.BoundingBox {
	return e.localBox
}

// Collides проверяет пересечение мировой сферы сущности с other
func (e *Entity) Collides(other physics.BoundingSphere) bool {
	return e.BoundingSphere().Intersects(other)
}

// AddResponder регистрирует реакцию на столкновение
func (e *Entity) AddResponder(r Responder) {
	e.responders = append(e.responders, r)
}

// HasCollisionResponse сообщает, есть ли у сущности реакции
func (e *Entity) HasCollisionResponse() bool {
	return len(e.responders) > 0
}

// OnCollide вызывает все реакции в порядке регистрации
func (e *Entity) OnCollide() {
	// Реакции могут менять список, поэтому идём по копии
	responders := make([]Responder, len(e.responders))
	copy(responders, e.responders)

	for _, r := range responders {
		r(e)
	}
}

// SetUpdater задаёт покадровое поведение
func (e *Entity) SetUpdater(u Updater) {
	e.updater = u
}

// Updatable сообщает, требует ли сущность покадрового обновления
func (e *Entity) Updatable() bool {
	return e.updater != nil
}

// Update выполняет покадровое поведение, если оно есть
func (e *Entity) Update(dt float64) {
	if e.updater != nil {
		e.updater.Update(e, dt)
	}
}

// SetMaterial назначает текстуру под-мешу с индексом index
func (e *Entity) SetMaterial(index int, tex content.Texture) {
	e.Materials[index] = tex
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
