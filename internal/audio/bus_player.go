package audio

import (
	"context"

	"github.com/annel0/fuelcell/internal/eventbus"
	"github.com/annel0/fuelcell/internal/logging"
)

type cuePayload struct {
	Cue Cue `json:"cue"`
}

// BusPlayer публикует сигналы в шину событий; воспроизводит их слушатель,
// поэтому вызов Play никогда не блокирует кадр
type BusPlayer struct {
	bus    eventbus.EventBus
	source string
}

// NewBusPlayer создаёт плеер поверх шины; source идентификатор сессии
func NewBusPlayer(bus eventbus.EventBus, source string) *BusPlayer {
	return &BusPlayer{bus: bus, source: source}
}

// Play публикует событие CuePlayed с низким приоритетом
func (p *BusPlayer) Play(cue Cue) {
	ev, err := eventbus.NewEnvelope(p.source, eventbus.TypeCuePlayed, 1, cuePayload{Cue: cue})
	if err != nil {
		logging.Warn("🔇 Сигнал %s не отправлен: %v", cue, err)
		return
	}
	if err := p.bus.Publish(context.Background(), ev); err != nil {
		logging.Warn("🔇 Сигнал %s не отправлен: %v", cue, err)
	}
}

// Listen подписывает target на сигналы из шины
func Listen(ctx context.Context, bus eventbus.EventBus, target Player) (eventbus.Subscription, error) {
	return bus.Subscribe(ctx, eventbus.Filter{Types: []string{eventbus.TypeCuePlayed}}, func(ctx context.Context, ev *eventbus.Envelope) {
		var p cuePayload
		if err := ev.Decode(&p); err != nil {
			logging.Warn("🔇 Некорректное событие %s: %v", ev.ID, err)
			return
		}
		target.Play(p.Cue)
	})
}
