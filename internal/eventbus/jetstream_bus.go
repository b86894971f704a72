package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/annel0/fuelcell/internal/logging"
	nats "github.com/nats-io/nats.go"
)

// DefaultStream имя стрима игровых событий
const DefaultStream = "FUELCELL"

// subjectPrefix корень subject'ов: fuelcell.<EventType>
const subjectPrefix = "fuelcell"

// JetStreamBus реализует EventBus поверх NATS JetStream.
// Подписки эфемерные: подписчик видит только события после подписки.
type JetStreamBus struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	stream string

	published atomic.Uint64
	consumed  atomic.Uint64
	dropped   atomic.Uint64
}

// NewJetStreamBus подключается к NATS и создаёт стрим, если его ещё нет.
// retention ограничивает возраст сообщений в стриме.
func NewJetStreamBus(url, stream string, retention time.Duration) (*JetStreamBus, error) {
	if stream == "" {
		stream = DefaultStream
	}

	nc, err := nats.Connect(url, nats.Name("fuelcell"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}

	if err := ensureStream(js, stream, retention); err != nil {
		nc.Close()
		return nil, err
	}

	return &JetStreamBus{nc: nc, js: js, stream: stream}, nil
}

func ensureStream(js nats.JetStreamContext, stream string, retention time.Duration) error {
	if _, err := js.StreamInfo(stream); err == nil {
		return nil
	}

	_, err := js.AddStream(&nats.StreamConfig{
		Name:       stream,
		Subjects:   []string{Subject("*")},
		Retention:  nats.LimitsPolicy,
		MaxAge:     retention,
		Storage:    nats.FileStorage,
		Duplicates: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("add stream %s: %w", stream, err)
	}
	logging.Info("📡 JetStream: создан стрим %s (%s)", stream, Subject("*"))
	return nil
}

// Subject возвращает subject события указанного типа
func Subject(eventType string) string {
	return subjectPrefix + "." + eventType
}

// Stream имя стрима шины
func (jb *JetStreamBus) Stream() string {
	return jb.stream
}

// Publish публикует событие; ID конверта служит ключом дедупликации.
func (jb *JetStreamBus) Publish(ctx context.Context, ev *Envelope) error {
	data, err := json.Marshal(ev)
	if err != nil {
		jb.dropped.Add(1)
		return fmt.Errorf("encode %s: %w", ev.EventType, err)
	}

	_, err = jb.js.Publish(Subject(ev.EventType), data, nats.Context(ctx), nats.MsgId(ev.ID))
	if err != nil {
		jb.dropped.Add(1)
		return fmt.Errorf("jetstream publish %s: %w", ev.EventType, err)
	}
	jb.published.Add(1)
	return nil
}

// Subscribe открывает по упорядоченному consumer'у на каждый тип фильтра
// (или один на все типы) и отдаёт подходящие события в handler.
func (jb *JetStreamBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	subjects := []string{Subject("*")}
	if len(f.Types) > 0 {
		subjects = subjects[:0]
		for _, t := range f.Types {
			subjects = append(subjects, Subject(t))
		}
	}

	onMsg := func(msg *nats.Msg) {
		var ev Envelope
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			jb.dropped.Add(1)
			logging.Warn("📡 JetStream: битое событие в %s: %v", msg.Subject, err)
			return
		}
		if !matchFilter(&ev, f) {
			return
		}
		h(ctx, &ev)
		jb.consumed.Add(1)
	}

	sub := &jetSub{}
	for _, subj := range subjects {
		s, err := jb.js.Subscribe(subj, onMsg, nats.OrderedConsumer(), nats.DeliverNew(), nats.BindStream(jb.stream))
		if err != nil {
			sub.Unsubscribe()
			return nil, fmt.Errorf("jetstream subscribe %s: %w", subj, err)
		}
		sub.subs = append(sub.subs, s)
	}
	return sub, nil
}

type jetSub struct {
	subs []*nats.Subscription
}

func (j *jetSub) Unsubscribe() {
	for _, s := range j.subs {
		_ = s.Unsubscribe()
	}
	j.subs = nil
}

// Metrics возвращает счётчики шины. Очередь держит сам JetStream.
func (jb *JetStreamBus) Metrics() Stats {
	return Stats{
		Published: jb.published.Load(),
		Consumed:  jb.consumed.Load(),
		Dropped:   jb.dropped.Load(),
	}
}

// Close дожидается отправки буфера и закрывает соединение
func (jb *JetStreamBus) Close() error {
	return jb.nc.Drain()
}
