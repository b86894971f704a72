package world

import (
	"errors"
	"fmt"

	"github.com/annel0/fuelcell/internal/content"
	"github.com/annel0/fuelcell/internal/logging"
	"github.com/annel0/fuelcell/internal/physics"
	"github.com/annel0/fuelcell/internal/render"
	"github.com/annel0/fuelcell/internal/vec"
	"github.com/annel0/fuelcell/internal/world/entity"
)

// firstEntityID первый ID сущностей мира; младшие ID зарезервированы за игроком
const firstEntityID = 1000

// Membership битовая маска коллекций менеджера, в которых состоит сущность
type Membership uint8

const (
	InBlocks Membership = 1 << iota
	InPickups
	InUpdated
	InDrawn
)

// Has проверяет наличие флага
func (m Membership) Has(flag Membership) bool {
	return m&flag != 0
}

// Counts размеры коллекций менеджера
type Counts struct {
	Blocks  int `json:"blocks"`
	Pickups int `json:"pickups"`
	Updated int `json:"updated"`
	Drawn   int `json:"drawn"`
}

// Manager владеет сущностями мира и четырьмя коллекциями: blocks, pickups,
// update-list и draw-list. Удаление во время обхода откладывается до его
// окончания, поэтому обход никогда не видит частично удалённую сущность.
type Manager struct {
	catalog content.Catalog
	effects Effects
	layout  Layout

	nextID uint64

	blocks  []*entity.Entity
	pickups []*entity.Entity
	updated []*entity.Entity
	drawn   []*entity.Entity

	members   map[*entity.Entity]Membership
	pending   map[*entity.Entity]struct{}
	traversal int

	sign *entity.Entity
}

// NewManager создаёт пустой менеджер. Шаг сетки берётся из габаритов меша блока.
func NewManager(catalog content.Catalog, effects Effects) (*Manager, error) {
	cube, err := catalog.Mesh(content.MeshCube)
	if err != nil {
		return nil, err
	}
	probe, err := entity.New(0, entity.KindBlock, cube)
	if err != nil {
		return nil, err
	}

	return NewManagerWithLayout(catalog, effects, DefaultLayout(probe.AbsoluteDimensions())), nil
}

// NewManagerWithLayout создаёт менеджер с явной раскладкой
func NewManagerWithLayout(catalog content.Catalog, effects Effects, layout Layout) *Manager {
	return &Manager{
		catalog: catalog,
		effects: effects,
		layout:  layout,
		nextID:  firstEntityID,
		members: make(map[*entity.Entity]Membership),
		pending: make(map[*entity.Entity]struct{}),
	}
}

// Layout возвращает раскладку менеджера
func (m *Manager) Layout() Layout {
	return m.layout
}

// Build заполняет коллекции: сначала окружение (небо, игрок, пол, замок,
// табличка), затем один полный обход сетки. Предыдущее содержимое удаляется.
func (m *Manager) Build(g *Grid, player *entity.Entity) error {
	if player == nil {
		return errors.New("world build: nil player")
	}
	if m.traversal > 0 {
		return errors.New("world build during traversal")
	}

	m.Clear()

	if err := m.buildProps(player); err != nil {
		m.Clear()
		return err
	}

	var buildErr error
	g.Each(func(p vec.Vec3, c Cell) {
		if buildErr != nil || c == CellEmpty {
			return
		}
		buildErr = m.spawnCell(p, c)
	})
	if buildErr != nil {
		m.Clear()
		return buildErr
	}

	counts := m.Counts()
	logging.Info("🌍 Мир построен: блоков=%d предметов=%d обновляемых=%d отрисовываемых=%d",
		counts.Blocks, counts.Pickups, counts.Updated, counts.Drawn)
	return nil
}

func (m *Manager) buildProps(player *entity.Entity) error {
	sky, err := m.spawn(entity.KindSkybox, content.MeshSkybox)
	if err != nil {
		return err
	}
	sky.SetUpdater(entity.FollowBehavior{Target: player})
	sky.SetPosition(player.Position())
	sky.RecomputeTransform()

	floor, err := m.spawn(entity.KindProp, content.MeshFloor)
	if err != nil {
		return err
	}
	if err := m.applyTexture(floor, content.TextureFloor); err != nil {
		return err
	}
	floor.RecomputeTransform()

	castle, err := m.spawn(entity.KindProp, content.MeshCastle)
	if err != nil {
		return err
	}
	castle.SetPosition(m.layout.CastlePosition)
	castle.RecomputeTransform()

	sign, err := m.spawn(entity.KindSign, content.MeshSign)
	if err != nil {
		return err
	}
	sign.SetPosition(m.layout.SignPosition)
	sign.RecomputeTransform()
	m.sign = sign

	m.track(player, InUpdated)
	m.track(sky, InUpdated)

	m.track(sky, InDrawn)
	m.track(player, InDrawn)
	m.track(floor, InDrawn)
	m.track(castle, InDrawn)
	m.track(sign, InDrawn|InBlocks)

	return nil
}

func (m *Manager) spawnCell(p vec.Vec3, c Cell) error {
	var (
		kind     entity.Kind
		meshName string
		texture  string
		scale    float32
	)

	switch c {
	case CellBlock:
		kind, meshName, texture, scale = entity.KindBlock, content.MeshCube, content.TextureBox, m.layout.BlockScale
	case CellStar:
		kind, meshName, texture, scale = entity.KindStar, content.MeshStar, content.TextureStar, m.layout.StarScale
	case CellGoomba:
		kind, meshName, scale = entity.KindGoomba, content.MeshGoomba, m.layout.GoombaScale
	default:
		return fmt.Errorf("cell %+v: unexpected classification %s", p, c)
	}

	e, err := m.spawn(kind, meshName)
	if err != nil {
		return err
	}
	if texture != "" {
		if err := m.applyTexture(e, texture); err != nil {
			return err
		}
	}

	e.SetScale(uniformScale(scale))
	e.SetPosition(m.layout.CellPosition(p, c))
	e.SetBoundingSphere(m.layout.PickupSphere)
	e.RecomputeTransform()

	switch c {
	case CellBlock:
		m.track(e, InDrawn|InBlocks)
	case CellStar:
		e.SetUpdater(entity.NewSpinBehavior())
		e.AddResponder(m.pickupResponder(StarEffect))
		m.track(e, InDrawn|InPickups|InUpdated)
	case CellGoomba:
		e.SetUpdater(entity.Idle)
		e.AddResponder(m.pickupResponder(GoombaEffect))
		m.track(e, InDrawn|InPickups|InUpdated)
	}
	return nil
}

func (m *Manager) spawn(kind entity.Kind, meshName string) (*entity.Entity, error) {
	mesh, err := m.catalog.Mesh(meshName)
	if err != nil {
		return nil, err
	}

	e, err := entity.New(m.nextID, kind, mesh)
	if err != nil {
		return nil, err
	}
	m.nextID++
	return e, nil
}

func (m *Manager) applyTexture(e *entity.Entity, name string) error {
	tex, err := m.catalog.Texture(name)
	if err != nil {
		return err
	}
	e.SetMaterial(0, tex)
	return nil
}

// Add регистрирует внешнюю сущность в указанных коллекциях (в конец)
func (m *Manager) Add(e *entity.Entity, where Membership) {
	m.track(e, where)
}

func (m *Manager) track(e *entity.Entity, where Membership) {
	have := m.members[e]
	add := where &^ have

	if add.Has(InBlocks) {
		m.blocks = append(m.blocks, e)
	}
	if add.Has(InPickups) {
		m.pickups = append(m.pickups, e)
	}
	if add.Has(InUpdated) {
		m.updated = append(m.updated, e)
	}
	if add.Has(InDrawn) {
		m.drawn = append(m.drawn, e)
	}

	if have|add != 0 {
		m.members[e] = have | add
	}
}

// Sign возвращает табличку рекордов (nil до Build)
func (m *Manager) Sign() *entity.Entity {
	return m.sign
}

// Membership возвращает коллекции, в которых состоит сущность. Помеченная
// на удаление сущность считается уже удалённой.
func (m *Manager) Membership(e *entity.Entity) Membership {
	if _, removed := m.pending[e]; removed {
		return 0
	}
	return m.members[e]
}

// IsPickup проверяет, отслеживается ли сущность как предмет
func (m *Manager) IsPickup(e *entity.Entity) bool {
	return m.Membership(e).Has(InPickups)
}

// Remove удаляет сущность из всех коллекций сразу. Внутри обхода удаление
// откладывается до его конца, но сущность сразу перестаёт быть видимой.
func (m *Manager) Remove(e *entity.Entity) {
	if _, ok := m.members[e]; !ok {
		return
	}
	if m.traversal > 0 {
		m.pending[e] = struct{}{}
		return
	}
	m.removeNow(e)
}

func (m *Manager) removeNow(e *entity.Entity) {
	where := m.members[e]
	if where.Has(InBlocks) {
		m.blocks = without(m.blocks, e)
	}
	if where.Has(InPickups) {
		m.pickups = without(m.pickups, e)
	}
	if where.Has(InUpdated) {
		m.updated = without(m.updated, e)
	}
	if where.Has(InDrawn) {
		m.drawn = without(m.drawn, e)
	}
	delete(m.members, e)
	if m.sign == e {
		m.sign = nil
	}
}

func without(list []*entity.Entity, e *entity.Entity) []*entity.Entity {
	out := list[:0]
	for _, item := range list {
		if item != e {
			out = append(out, item)
		}
	}
	// Обнуляем хвост, чтобы не держать ссылку
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	return out
}

func (m *Manager) beginTraversal() {
	m.traversal++
}

func (m *Manager) endTraversal() {
	m.traversal--
	if m.traversal > 0 || len(m.pending) == 0 {
		return
	}
	for e := range m.pending {
		m.removeNow(e)
	}
	m.pending = make(map[*entity.Entity]struct{})
}

func (m *Manager) isPending(e *entity.Entity) bool {
	_, ok := m.pending[e]
	return ok
}

// Update продвигает update-list в порядке вставки
func (m *Manager) Update(dt float64) {
	m.beginTraversal()
	defer m.endTraversal()

	// Стабильный диапазон: добавленные во время обхода ждут следующего кадра
	n := len(m.updated)
	for i := 0; i < n; i++ {
		e := m.updated[i]
		if m.isPending(e) {
			continue
		}
		e.Update(dt)
	}
}

// DispatchPickups проверяет сферу игрока против каждого предмета и вызывает
// реакции при пересечении. Возвращает число сработавших столкновений.
func (m *Manager) DispatchPickups(sphere physics.BoundingSphere) int {
	m.beginTraversal()
	defer m.endTraversal()

	hits := 0
	n := len(m.pickups)
	for i := 0; i < n; i++ {
		e := m.pickups[i]
		if m.isPending(e) {
			continue
		}
		if !e.Collides(sphere) {
			continue
		}
		hits++
		e.OnCollide()
	}
	return hits
}

// Draw передаёт draw-list рендереру в порядке вставки
func (m *Manager) Draw(r render.Renderer) {
	m.beginTraversal()
	defer m.endTraversal()

	r.BeginFrame()
	for _, e := range m.drawn {
		if m.isPending(e) {
			continue
		}
		r.Draw(render.DrawItem{
			EntityID:  e.ID,
			Kind:      e.Kind.String(),
			Transform: e.Transform(),
			Mesh:      e.Mesh,
			Materials: e.Materials,
			Label:     e.Label,
		})
	}
	r.EndFrame()
}

// BlockedBy реализует препятствия для игрока: коробка пересекает хотя бы один блок
func (m *Manager) BlockedBy(box physics.BoundingBox) bool {
	for _, e := range m.blocks {
		if m.isPending(e) {
			continue
		}
		if e.CollisionBox().Intersects(box) {
			return true
		}
	}
	return false
}

// Blocks возвращает копию коллекции блоков
func (m *Manager) Blocks() []*entity.Entity { return m.snapshot(m.blocks) }

// Pickups возвращает копию коллекции предметов
func (m *Manager) Pickups() []*entity.Entity { return m.snapshot(m.pickups) }

// Updated возвращает копию update-list
func (m *Manager) Updated() []*entity.Entity { return m.snapshot(m.updated) }

// Drawn возвращает копию draw-list
func (m *Manager) Drawn() []*entity.Entity { return m.snapshot(m.drawn) }

func (m *Manager) snapshot(list []*entity.Entity) []*entity.Entity {
	out := make([]*entity.Entity, 0, len(list))
	for _, e := range list {
		if !m.isPending(e) {
			out = append(out, e)
		}
	}
	return out
}

// Counts возвращает размеры коллекций без учёта помеченных на удаление
func (m *Manager) Counts() Counts {
	count := func(list []*entity.Entity) int {
		n := 0
		for _, e := range list {
			if !m.isPending(e) {
				n++
			}
		}
		return n
	}
	return Counts{
		Blocks:  count(m.blocks),
		Pickups: count(m.pickups),
		Updated: count(m.updated),
		Drawn:   count(m.drawn),
	}
}

// Clear удаляет все сущности. ID продолжают расти.
func (m *Manager) Clear() {
	m.blocks = nil
	m.pickups = nil
	m.updated = nil
	m.drawn = nil
	m.members = make(map[*entity.Entity]Membership)
	m.pending = make(map[*entity.Entity]struct{})
	m.sign = nil
}

// Verify сверяет коллекции с индексом членства. Ошибка оборачивает
// ErrStateInconsistency.
func (m *Manager) Verify() error {
	seen := make(map[*entity.Entity]Membership, len(m.members))

	collections := []struct {
		name string
		flag Membership
		list []*entity.Entity
	}{
		{"blocks", InBlocks, m.blocks},
		{"pickups", InPickups, m.pickups},
		{"update-list", InUpdated, m.updated},
		{"draw-list", InDrawn, m.drawn},
	}

	for _, c := range collections {
		for _, e := range c.list {
			if seen[e].Has(c.flag) {
				return fmt.Errorf("entity %d listed twice in %s: %w", e.ID, c.name, ErrStateInconsistency)
			}
			seen[e] |= c.flag
		}
	}

	for e, got := range seen {
		want := m.members[e]
		if got != want {
			return fmt.Errorf("entity %d: collections %04b, index %04b: %w", e.ID, got, want, ErrStateInconsistency)
		}
		if got.Has(InBlocks) && got.Has(InPickups) {
			return fmt.Errorf("entity %d is both block and pickup: %w", e.ID, ErrStateInconsistency)
		}
		if (got.Has(InBlocks) || got.Has(InPickups)) && !got.Has(InDrawn) {
			return fmt.Errorf("entity %d (%s) tracked but not drawn: %w", e.ID, e.Kind, ErrStateInconsistency)
		}
		if got.Has(InPickups) && !got.Has(InUpdated) {
			return fmt.Errorf("pickup %d (%s) is not in update-list: %w", e.ID, e.Kind, ErrStateInconsistency)
		}
	}
	if len(seen) != len(m.members) {
		return fmt.Errorf("index holds %d entities, collections %d: %w", len(m.members), len(seen), ErrStateInconsistency)
	}
	return nil
}
