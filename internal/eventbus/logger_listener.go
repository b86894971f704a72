package eventbus

import (
	"context"

	"github.com/annel0/fuelcell/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог.
// События начала и конца сессии идут на INFO, остальные на DEBUG.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	sub, err := bus.Subscribe(context.Background(), Filter{}, logEvent)
	if err != nil {
		return nil, err
	}
	logging.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub, nil
}

func logEvent(_ context.Context, ev *Envelope) {
	switch ev.EventType {
	case TypeSessionStarted:
		logging.Info("[EventBus] ▶️ сессия %s началась", ev.Source)
	case TypeSessionEnded:
		logging.Info("[EventBus] 🏁 сессия %s закончилась: %s", ev.Source, ev.Payload)
	case TypeLeaderboardUpdated:
		logging.Info("[EventBus] 🏆 таблица рекордов обновлена сессией %s", ev.Source)
	default:
		logging.Debug("[EventBus] %s %s src=%s prio=%d size=%dB", ev.ID, ev.EventType, ev.Source, ev.Priority, len(ev.Payload))
	}
}
