// Package session связывает мир, игрока, счёт, звук и события в одну
// игровую сессию без глобального состояния.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/fuelcell/internal/audio"
	"github.com/annel0/fuelcell/internal/config"
	"github.com/annel0/fuelcell/internal/content"
	"github.com/annel0/fuelcell/internal/eventbus"
	"github.com/annel0/fuelcell/internal/logging"
	"github.com/annel0/fuelcell/internal/metrics"
	"github.com/annel0/fuelcell/internal/observability"
	"github.com/annel0/fuelcell/internal/player"
	"github.com/annel0/fuelcell/internal/render"
	"github.com/annel0/fuelcell/internal/score"
	"github.com/annel0/fuelcell/internal/world"
	"github.com/annel0/fuelcell/internal/world/entity"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Options зависимости сессии. Необязательные поля могут быть nil.
type Options struct {
	Config      *config.Config
	Catalog     content.Catalog   // nil — встроенный каталог
	Leaderboard score.Repository  // nil — таблица только в памяти
	Audio       audio.Player      // nil — без звука
	Bus         eventbus.EventBus // nil — события не публикуются
	Metrics     *metrics.Game
	Renderer    render.Renderer // nil — render.Discard
	Controller  player.Controller
}

// Session одна игра: мир, игрок, счёт и фазы
type Session struct {
	mu sync.Mutex

	id       string
	cfg      *config.Config
	catalog  content.Catalog
	world    *world.Manager
	planner  *world.Planner
	player   *player.Player
	scores   *score.Manager
	audio    audio.Player
	bus      eventbus.EventBus
	metrics  *metrics.Game
	renderer render.Renderer
	phase    *machine

	start  mgl32.Vec3
	frames uint64
	last   Result
}

// Result итог завершённой сессии
type Result struct {
	Score     int    `json:"score"`
	Qualified bool   `json:"qualified"`
	Name      string `json:"name,omitempty"`
	Rank      int    `json:"rank,omitempty"` // место в таблице, с 1
}

// Snapshot состояние сессии для API
type Snapshot struct {
	ID         string       `json:"id"`
	Phase      Phase        `json:"phase"`
	Score      int          `json:"score"`
	Energy     int          `json:"energy"`
	Adrenaline int          `json:"adrenaline"`
	Frames     uint64       `json:"frames"`
	Position   [3]float32   `json:"position"`
	Counts     world.Counts `json:"counts"`
	Last       *Result      `json:"last_result,omitempty"`
}

// New собирает сессию и строит первый мир. Фаза после создания Idle.
func New(ctx context.Context, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = content.NewBuiltinCatalog()
	}

	s := &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		catalog:  catalog,
		planner:  world.NewPlanner(cfg.World.Seed, cfg.World.MaxAttempts),
		scores:   score.NewManager(opts.Leaderboard),
		audio:    opts.Audio,
		bus:      opts.Bus,
		metrics:  opts.Metrics,
		renderer: opts.Renderer,
		phase:    newMachine(),
		start:    mgl32.Vec3(cfg.Player.Start),
	}
	if s.audio == nil {
		s.audio = audio.Nop{}
	}
	if s.renderer == nil {
		s.renderer = render.Discard{}
	}

	if err := s.scores.Load(ctx); err != nil {
		logging.Warn("🏆 Таблица рекордов не загружена, используется таблица по умолчанию: %v", err)
	}

	mesh, err := catalog.Mesh(content.MeshPlayer)
	if err != nil {
		return nil, fmt.Errorf("player mesh: %w", err)
	}
	p, err := player.New(mesh, s.start)
	if err != nil {
		return nil, err
	}
	p.Speed = cfg.Player.Speed
	p.SetController(opts.Controller)
	s.player = p

	s.world, err = world.NewManager(catalog, s)
	if err != nil {
		return nil, fmt.Errorf("world manager: %w", err)
	}
	p.SetObstacles(s.world)

	s.phase.onEnter[PhasePlaying] = func() { s.player.SetControllable(true) }
	s.phase.onExit[PhasePlaying] = func() { s.player.SetControllable(false) }

	if err := s.buildWorld(ctx); err != nil {
		return nil, err
	}

	logging.Info("🎮 Сессия %s создана", s.id)
	return s, nil
}

// buildWorld генерирует сетку и пересобирает мир
func (s *Session) buildWorld(ctx context.Context) error {
	_, span := observability.Tracer().Start(ctx, "session.buildWorld")
	defer span.End()

	w := s.cfg.World
	targets := world.Targets{Blocks: w.Blocks, Stars: w.Stars, Enemies: w.Enemies}
	span.SetAttributes(
		attribute.String("session.id", s.id),
		attribute.Int("world.width", w.Width),
		attribute.Int("world.height", w.Height),
		attribute.Int("world.depth", w.Depth),
	)

	started := time.Now()
	before := s.planner.Rejections()

	grid := world.BuildGrid(w.Width, w.Height, w.Depth)
	err := s.planner.Populate(grid, targets)
	if s.metrics != nil {
		s.metrics.AddRejections(s.planner.Rejections() - before)
	}
	if err == nil {
		err = s.world.Build(grid, s.player.Entity)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("build world: %w", err)
	}

	s.refreshSign()

	counts := s.world.Counts()
	span.SetAttributes(
		attribute.Int("world.blocks", counts.Blocks),
		attribute.Int("world.pickups", counts.Pickups),
		attribute.Int64("world.rejections", int64(s.planner.Rejections()-before)),
	)
	if s.metrics != nil {
		s.metrics.SetCounts(counts)
	}
	logging.Debug("🌍 Генерация мира заняла %s", time.Since(started))
	return nil
}

func (s *Session) refreshSign() {
	if sign := s.world.Sign(); sign != nil {
		sign.Label = s.scores.SignText()
	}
}

// ID идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// Phase текущая фаза
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase.current
}

// Start переводит сессию в Playing и включает управление
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.phase.transition(PhasePlaying); err != nil {
		return err
	}
	s.audio.Play(audio.CuePlay)
	s.publish(ctx, eventbus.TypeSessionStarted, 5, map[string]interface{}{"session": s.id})
	logging.Info("▶️ Сессия %s запущена", s.id)
	return nil
}

// Pause останавливает мир
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.phase.transition(PhasePaused); err != nil {
		return err
	}
	s.audio.Play(audio.CuePause)
	return nil
}

// Resume продолжает игру после паузы
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.phase.transition(PhasePlaying); err != nil {
		return err
	}
	s.audio.Play(audio.CuePlay)
	return nil
}

// Step продвигает мир на dt секунд: обновление, столкновения, отрисовка.
// Вне фазы Playing ничего не делает и возвращает false.
func (s *Session) Step(dt float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.current != PhasePlaying {
		return false
	}

	started := time.Now()

	s.world.Update(dt)
	s.world.DispatchPickups(s.player.BoundingSphere())
	s.world.Draw(s.renderer)
	s.frames++

	if s.metrics != nil {
		s.metrics.ObserveFrame(time.Since(started).Seconds())
		s.metrics.SetCounts(s.world.Counts())
	}
	return true
}

// End завершает игру. Если счёт проходит в таблицу, запись вносится под
// именем игрока, табличка обновляется и звучит "win", иначе "lose".
// Таблица сохраняется, счёт обнуляется.
func (s *Session) End(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.phase.transition(PhaseFinished); err != nil {
		return Result{}, err
	}

	res := Result{Score: s.scores.Score()}
	if s.scores.Submit() {
		res.Qualified = true
		if name := s.cfg.Player.Name; name != "" && name != score.DefaultName {
			if err := s.scores.Rename(name); err != nil {
				logging.Warn("🏆 Имя %q не подходит, остаётся %s: %v", name, score.DefaultName, err)
			}
		}
		if entry, ok := s.scores.Pending(); ok {
			res.Name = entry.Name
			res.Rank = rankOf(s.scores.Entries(), entry)
		}
		s.refreshSign()
		s.audio.Play(audio.CueWin)
	} else {
		s.audio.Play(audio.CueLose)
	}

	err := s.scores.Finish(ctx)
	if s.metrics != nil {
		s.metrics.SetScore(0)
	}
	s.last = res

	s.publish(ctx, eventbus.TypeSessionEnded, 5, res)
	if res.Qualified {
		s.publish(ctx, eventbus.TypeLeaderboardUpdated, 5, s.scores.Entries())
	}

	logging.Info("🏁 Сессия %s завершена: счёт=%d в таблице=%v", s.id, res.Score, res.Qualified)
	if err != nil {
		return res, fmt.Errorf("finish session: %w", err)
	}
	return res, nil
}

func rankOf(entries []score.Entry, target score.Entry) int {
	for i, e := range entries {
		if e == target {
			return i + 1
		}
	}
	return 0
}

// Restart очищает мир, возвращает игрока на старт с полными показателями
// и генерирует новую сетку. Доступен только после End.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !CanTransition(s.phase.current, PhaseIdle) {
		return fmt.Errorf("restart from %s: %w", s.phase.current, ErrInvalidTransition)
	}

	s.world.Clear()
	s.player.Reset(s.start)
	s.frames = 0

	if err := s.buildWorld(ctx); err != nil {
		return err
	}
	s.audio.Play(audio.CueMenu)
	return s.phase.transition(PhaseIdle)
}

// Snapshot копия состояния для чтения из других горутин
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.id,
		Phase:      s.phase.current,
		Score:      s.scores.Score(),
		Energy:     s.player.Energy,
		Adrenaline: s.player.Adrenaline,
		Frames:     s.frames,
		Position:   [3]float32(s.player.Position()),
		Counts:     s.world.Counts(),
	}
	if s.phase.current == PhaseFinished {
		last := s.last
		snap.Last = &last
	}
	return snap
}

// Leaderboard текущая таблица рекордов
func (s *Session) Leaderboard() []score.Entry {
	return s.scores.Entries()
}

// Player игрок сессии
func (s *Session) Player() *player.Player {
	return s.player
}

// World менеджер мира сессии
func (s *Session) World() *world.Manager {
	return s.world
}

// Scores менеджер счёта
func (s *Session) Scores() *score.Manager {
	return s.scores
}

// === world.Effects ===
// Вызываются изнутри Step под s.mu, поэтому мьютекс не берут.

// AddScore меняет счёт
func (s *Session) AddScore(delta int) {
	s.scores.AddScore(delta)
	if s.metrics != nil {
		s.metrics.SetScore(s.scores.Score())
	}
}

// AdjustVitals меняет показатели игрока
func (s *Session) AdjustVitals(energy, adrenaline int) {
	s.player.AdjustVitals(energy, adrenaline)
}

// PlayCue проигрывает сигнал
func (s *Session) PlayCue(cue audio.Cue) {
	s.audio.Play(cue)
}

// PickupCollected учитывает подбор в метриках и шине событий
func (s *Session) PickupCollected(kind entity.Kind) {
	if s.metrics != nil {
		s.metrics.PickupCollected(kind.String())
	}
	s.publish(context.Background(), eventbus.TypePickupCollected, 1, pickupPayload{
		Kind:       kind.String(),
		Score:      s.scores.Score(),
		Energy:     s.player.Energy,
		Adrenaline: s.player.Adrenaline,
	})
}

type pickupPayload struct {
	Kind       string `json:"kind"`
	Score      int    `json:"score"`
	Energy     int    `json:"energy"`
	Adrenaline int    `json:"adrenaline"`
}

func (s *Session) publish(ctx context.Context, eventType string, priority int, payload interface{}) {
	if s.bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(s.id, eventType, priority, payload)
	if err != nil {
		logging.Warn("📨 Событие %s не собрано: %v", eventType, err)
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		logging.Warn("📨 Событие %s не отправлено: %v", eventType, err)
	}
}
