// Package metrics содержит prometheus-метрики игровой сессии.
//
// Метрики:
//   - fuelcell_frames_total — counter
//   - fuelcell_pickups_collected_total{kind} — counter
//   - fuelcell_placement_rejections_total — counter
//   - fuelcell_entities{collection} — gauge
//   - fuelcell_frame_duration_seconds — histogram
//   - fuelcell_score — gauge
package metrics

import (
	"github.com/annel0/fuelcell/internal/world"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fuelcell"

// Game набор метрик одной сессии
type Game struct {
	frames        prometheus.Counter
	pickups       *prometheus.CounterVec
	rejections    prometheus.Counter
	entities      *prometheus.GaugeVec
	frameDuration prometheus.Histogram
	score         prometheus.Gauge
}

// NewGame создаёт метрики и регистрирует их в reg
func NewGame(reg prometheus.Registerer) (*Game, error) {
	g := &Game{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Число обработанных кадров.",
		}),
		pickups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pickups_collected_total",
			Help:      "Собранные подбираемые объекты по виду.",
		}, []string{"kind"}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placement_rejections_total",
			Help:      "Отклонённые попытки размещения при генерации мира.",
		}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Размер коллекций менеджера мира.",
		}, []string{"collection"}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Время обработки кадра.",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066},
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Текущий счёт игрока.",
		}),
	}

	collectors := []prometheus.Collector{g.frames, g.pickups, g.rejections, g.entities, g.frameDuration, g.score}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ObserveFrame учитывает кадр длительностью seconds
func (g *Game) ObserveFrame(seconds float64) {
	g.frames.Inc()
	g.frameDuration.Observe(seconds)
}

// PickupCollected учитывает собранный объект
func (g *Game) PickupCollected(kind string) {
	g.pickups.WithLabelValues(kind).Inc()
}

// AddRejections добавляет отклонённые попытки размещения
func (g *Game) AddRejections(n uint64) {
	g.rejections.Add(float64(n))
}

// SetCounts обновляет размеры коллекций
func (g *Game) SetCounts(c world.Counts) {
	g.entities.WithLabelValues("blocks").Set(float64(c.Blocks))
	g.entities.WithLabelValues("pickups").Set(float64(c.Pickups))
	g.entities.WithLabelValues("updated").Set(float64(c.Updated))
	g.entities.WithLabelValues("drawn").Set(float64(c.Drawn))
}

// SetScore обновляет текущий счёт
func (g *Game) SetScore(score int) {
	g.score.Set(float64(score))
}
