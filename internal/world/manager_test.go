package world

import (
	"testing"

	"github.com/annel0/fuelcell/internal/audio"
	"github.com/annel0/fuelcell/internal/content"
	"github.com/annel0/fuelcell/internal/physics"
	"github.com/annel0/fuelcell/internal/render"
	"github.com/annel0/fuelcell/internal/vec"
	"github.com/annel0/fuelcell/internal/world/entity"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEffects копия правил сессии: показатели ограничены [0, 100]
type fakeEffects struct {
	score      int
	energy     int
	adrenaline int
	cues       []audio.Cue
	collected  []entity.Kind
}

func (f *fakeEffects) AddScore(delta int) { f.score += delta }

func (f *fakeEffects) AdjustVitals(energy, adrenaline int) {
	f.energy = clampVital(f.energy + energy)
	f.adrenaline = clampVital(f.adrenaline + adrenaline)
}

func (f *fakeEffects) PlayCue(cue audio.Cue) { f.cues = append(f.cues, cue) }

func (f *fakeEffects) PickupCollected(kind entity.Kind) { f.collected = append(f.collected, kind) }

func clampVital(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func newTestManager(t *testing.T, fx Effects) (*Manager, *entity.Entity) {
	t.Helper()

	catalog := content.NewBuiltinCatalog()
	m, err := NewManager(catalog, fx)
	require.NoError(t, err)

	mesh, err := catalog.Mesh(content.MeshPlayer)
	require.NoError(t, err)
	player, err := entity.New(1, entity.KindPlayer, mesh)
	require.NoError(t, err)
	player.SetUpdater(entity.Idle)

	return m, player
}

func gridWith(cells map[vec.Vec3]Cell) *Grid {
	g := BuildGrid(4, 4, 4)
	for p, c := range cells {
		g.Set(p, c)
	}
	return g
}

func firstOfKind(list []*entity.Entity, kind entity.Kind) *entity.Entity {
	for _, e := range list {
		if e.Kind == kind {
			return e
		}
	}
	return nil
}

func TestDefaultLayout_UsesBlockPitch(t *testing.T) {
	m, _ := newTestManager(t, nil)
	l := m.Layout()

	assert.Equal(t, mgl32.Vec3{20, 30, 40}, l.Pitch, "Шаг = габариты блока x (2, 3, 4)")
	assert.Equal(t, float32(15), l.FloorOffset())

	assert.Equal(t, mgl32.Vec3{20, 15, 80}, l.CellPosition(vec.Vec3{X: 1, Y: 0, Z: 2}, CellStar))
	assert.Equal(t, mgl32.Vec3{20, 0, 80}, l.CellPosition(vec.Vec3{X: 1, Y: 0, Z: 2}, CellBlock), "Блоки не приподнимаются")
	assert.Equal(t, mgl32.Vec3{20, 30, 80}, l.CellPosition(vec.Vec3{X: 1, Y: 1, Z: 2}, CellGoomba))
}

func TestManager_BuildOrderAndCollections(t *testing.T) {
	fx := &fakeEffects{}
	m, player := newTestManager(t, fx)

	g := gridWith(map[vec.Vec3]Cell{
		{X: 0, Y: 0, Z: 0}: CellBlock,
		{X: 2, Y: 0, Z: 0}: CellBlock,
		{X: 1, Y: 0, Z: 1}: CellStar,
		{X: 0, Y: 1, Z: 0}: CellGoomba,
	})
	require.NoError(t, m.Build(g, player))

	assert.Equal(t, Counts{Blocks: 3, Pickups: 2, Updated: 4, Drawn: 9}, m.Counts())

	drawn := m.Drawn()
	kinds := make([]entity.Kind, 0, 5)
	for _, e := range drawn[:5] {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []entity.Kind{entity.KindSkybox, entity.KindPlayer, entity.KindProp, entity.KindProp, entity.KindSign}, kinds,
		"Окружение рисуется первым в фиксированном порядке")

	updated := m.Updated()
	assert.Same(t, player, updated[0])
	assert.Equal(t, entity.KindSkybox, updated[1].Kind)
	assert.Equal(t, entity.KindGoomba, updated[2].Kind, "Обход сетки по x: враг в (0,1,0) раньше звезды в (1,0,1)")
	assert.Equal(t, entity.KindStar, updated[3].Kind)

	require.NotNil(t, m.Sign())
	assert.True(t, m.Membership(m.Sign()).Has(InBlocks), "Табличка твёрдая")
	assert.Equal(t, mgl32.Vec3{60, 4, 60}, m.Sign().Position())

	for _, e := range m.Pickups() {
		assert.True(t, e.HasSphereOverride())
		assert.True(t, e.HasCollisionResponse())
		assert.InDelta(t, 16, e.BoundingSphere().Radius, 1e-6)
	}

	star := firstOfKind(m.Pickups(), entity.KindStar)
	require.NotNil(t, star)
	assert.Equal(t, mgl32.Vec3{20, 15, 40}, star.Position())
	assert.Equal(t, mgl32.Vec3{0.07, 0.07, 0.07}, star.Scale())

	goomba := firstOfKind(m.Pickups(), entity.KindGoomba)
	require.NotNil(t, goomba)
	assert.Equal(t, InDrawn|InPickups|InUpdated, m.Membership(goomba), "Враг в draw-list, pickups и update-list")
	assert.True(t, goomba.Updatable())

	assert.NoError(t, m.Verify())
}

func TestManager_StarResponseScenario(t *testing.T) {
	fx := &fakeEffects{energy: 90, adrenaline: 90}
	m, player := newTestManager(t, fx)
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{{X: 1, Y: 1, Z: 1}: CellStar}), player))

	star := firstOfKind(m.Pickups(), entity.KindStar)
	require.NotNil(t, star)

	star.OnCollide()

	assert.Equal(t, 200, fx.score)
	assert.Equal(t, 100, fx.energy)
	assert.Equal(t, 100, fx.adrenaline)
	assert.Equal(t, []audio.Cue{audio.CueStar}, fx.cues)
	assert.Equal(t, Membership(0), m.Membership(star), "Звезда должна исчезнуть из всех коллекций")
	assert.NotContains(t, m.Drawn(), star)
	assert.NotContains(t, m.Updated(), star)

	// Повторная реакция безопасна
	star.OnCollide()
	assert.Equal(t, 200, fx.score)
	assert.NoError(t, m.Verify())
}

func TestManager_GoombaPenalty(t *testing.T) {
	fx := &fakeEffects{score: 100, energy: 5, adrenaline: 50}
	m, player := newTestManager(t, fx)
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{{X: 0, Y: 0, Z: 0}: CellGoomba}), player))

	goomba := firstOfKind(m.Pickups(), entity.KindGoomba)
	require.NotNil(t, goomba)
	hits := m.DispatchPickups(physics.BoundingSphere{Center: goomba.Position(), Radius: 1})

	assert.Equal(t, 1, hits)
	assert.Equal(t, -300, fx.score)
	assert.Equal(t, 0, fx.energy, "Энергия не опускается ниже нуля")
	assert.Equal(t, 50, fx.adrenaline)
	assert.Equal(t, []audio.Cue{audio.CueGoomba}, fx.cues)
	assert.Equal(t, []entity.Kind{entity.KindGoomba}, fx.collected)
}

func TestManager_DispatchRemovesAtomically(t *testing.T) {
	fx := &fakeEffects{}
	m, player := newTestManager(t, fx)
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{
		{X: 0, Y: 1, Z: 0}: CellStar,
		{X: 1, Y: 1, Z: 0}: CellStar,
		{X: 3, Y: 1, Z: 3}: CellStar,
	}), player))

	// Между двумя соседними звёздами: расстояние 10 до каждой
	probe := physics.BoundingSphere{Center: mgl32.Vec3{10, 30, 0}, Radius: 1}
	hits := m.DispatchPickups(probe)

	assert.Equal(t, 2, hits)
	assert.Equal(t, 400, fx.score)
	assert.Equal(t, 1, m.Counts().Pickups)
	assert.Equal(t, 0, m.DispatchPickups(probe), "Удалённые предметы не обрабатываются повторно")
	assert.NoError(t, m.Verify())
}

func TestManager_RemovalDuringDispatchSkipsVictim(t *testing.T) {
	fx := &fakeEffects{}
	m, player := newTestManager(t, fx)
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{
		{X: 0, Y: 1, Z: 0}: CellStar,
		{X: 1, Y: 1, Z: 0}: CellStar,
	}), player))

	pickups := m.Pickups()
	require.Len(t, pickups, 2)
	first, second := pickups[0], pickups[1]

	first.AddResponder(func(e *entity.Entity) {
		m.Remove(second)
		assert.Equal(t, Membership(0), m.Membership(second), "Помеченная сущность сразу невидима")
		assert.Len(t, m.pickups, 2, "Коллекция не меняется во время обхода")
	})

	hits := m.DispatchPickups(physics.BoundingSphere{Center: mgl32.Vec3{10, 30, 0}, Radius: 1})

	assert.Equal(t, 1, hits, "Удалённая в обходе сущность пропускается")
	assert.Equal(t, 200, fx.score)
	assert.Equal(t, 0, m.Counts().Pickups)
	assert.Len(t, m.pickups, 0)
	assert.NoError(t, m.Verify())
}

func TestManager_UpdateSpinsStars(t *testing.T) {
	m, player := newTestManager(t, &fakeEffects{})
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{{X: 1, Y: 1, Z: 1}: CellStar}), player))

	player.SetPosition(mgl32.Vec3{60, 2, 75})
	m.Update(1.0 / 60)

	star := firstOfKind(m.Pickups(), entity.KindStar)
	assert.InDelta(t, 1.0/60.0, star.Rotation().X(), 1e-6)

	sky := firstOfKind(m.Drawn(), entity.KindSkybox)
	assert.Equal(t, player.Position(), sky.Position(), "Небо следует за игроком")
}

func TestManager_DrawInInsertionOrder(t *testing.T) {
	m, player := newTestManager(t, &fakeEffects{})
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{
		{X: 0, Y: 0, Z: 0}: CellBlock,
		{X: 1, Y: 1, Z: 1}: CellStar,
	}), player))
	m.Sign().Label = "table"

	rec := &render.Recorder{}
	m.Draw(rec)

	frame := rec.LastFrame()
	require.Len(t, frame, 7)
	drawn := m.Drawn()
	for i := range frame {
		assert.Equal(t, drawn[i].ID, frame[i].EntityID)
	}
	assert.Equal(t, "table", frame[4].Label)
	assert.Equal(t, "block", frame[5].Kind)
	assert.Equal(t, content.TextureBox, frame[5].Materials[0].Name)
}

func TestManager_BlockedBy(t *testing.T) {
	m, player := newTestManager(t, &fakeEffects{})
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{{X: 1, Y: 0, Z: 1}: CellBlock}), player))

	inside := physics.BoundingBox{Min: mgl32.Vec3{22, 1, 42}, Max: mgl32.Vec3{24, 5, 44}}
	outside := physics.BoundingBox{Min: mgl32.Vec3{32, 1, 42}, Max: mgl32.Vec3{34, 5, 44}}

	assert.True(t, m.BlockedBy(inside))
	assert.False(t, m.BlockedBy(outside))
}

func TestManager_VerifyDetectsInconsistency(t *testing.T) {
	m, player := newTestManager(t, &fakeEffects{})
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{{X: 1, Y: 1, Z: 1}: CellStar}), player))

	// Нарушаем инвариант в обход Remove
	m.drawn = m.drawn[:len(m.drawn)-1]
	assert.ErrorIs(t, m.Verify(), ErrStateInconsistency)
}

func TestManager_GoombaJoinsUpdateList(t *testing.T) {
	m, player := newTestManager(t, &fakeEffects{})
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{{X: 0, Y: 0, Z: 0}: CellGoomba}), player))

	goomba := firstOfKind(m.Pickups(), entity.KindGoomba)
	require.NotNil(t, goomba)
	assert.True(t, m.Membership(goomba).Has(InUpdated), "Подбираемый объект обязан быть в update-list")
	assert.Len(t, m.Updated(), 3)

	assert.NotPanics(t, func() { m.Update(1.0 / 60) })

	m.DispatchPickups(goomba.BoundingSphere())
	assert.Len(t, m.Updated(), 2, "После столкновения враг уходит из update-list")
	assert.NoError(t, m.Verify())
}

func TestManager_VerifyRequiresPickupsUpdated(t *testing.T) {
	m, player := newTestManager(t, &fakeEffects{})
	require.NoError(t, m.Build(gridWith(map[vec.Vec3]Cell{{X: 0, Y: 0, Z: 0}: CellGoomba}), player))

	goomba := firstOfKind(m.Pickups(), entity.KindGoomba)
	require.NotNil(t, goomba)

	// Убираем врага из update-list вместе с индексом, обходя Remove
	m.updated = without(m.updated, goomba)
	m.members[goomba] &^= InUpdated
	assert.ErrorIs(t, m.Verify(), ErrStateInconsistency)
}

func TestManager_BuildMissingAsset(t *testing.T) {
	catalog := content.NewMemoryCatalog()
	catalog.AddMesh(content.NewMesh(content.MeshCube, []mgl32.Vec3{{0, 0, 0}, {10, 10, 10}}))

	m, err := NewManager(catalog, nil)
	require.NoError(t, err)

	player, err := entity.New(1, entity.KindPlayer, content.NewMesh("p", []mgl32.Vec3{{0, 0, 0}, {1, 1, 1}}))
	require.NoError(t, err)

	err = m.Build(BuildGrid(3, 3, 3), player)
	assert.ErrorIs(t, err, content.ErrAssetMissing)
	assert.Equal(t, Counts{}, m.Counts(), "После ошибки менеджер пуст")
}

func TestManager_FullSizeWorld(t *testing.T) {
	g := BuildGrid(55, 10, 55)
	require.NoError(t, NewPlanner(2024, 0).Populate(g, Targets{Blocks: 1000, Stars: 80, Enemies: 50}))

	m, player := newTestManager(t, &fakeEffects{})
	require.NoError(t, m.Build(g, player))

	assert.Equal(t, Counts{Blocks: 1001, Pickups: 130, Updated: 132, Drawn: 1135}, m.Counts())
	assert.NoError(t, m.Verify())

	// Перестройка заменяет содержимое целиком
	require.NoError(t, m.Build(g, player))
	assert.Equal(t, 1135, m.Counts().Drawn)
}
