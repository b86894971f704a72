package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/annel0/fuelcell/internal/eventbus"
)

const (
	defaultNatsURL = "nats://127.0.0.1:4222"
	timeFormat     = "2006-01-02T15:04:05Z"
)

func main() {
	var (
		natsURL    = flag.String("url", defaultNatsURL, "NATS server URL")
		stream     = flag.String("stream", eventbus.DefaultStream, "JetStream stream name")
		eventTypes = flag.String("types", "", "Event types filter (comma-separated)")
		sources    = flag.String("sources", "", "Session IDs filter (comma-separated)")
		duration   = flag.Duration("for", 0, "Stop after duration (0 = until Ctrl+C)")
		limit      = flag.Int("limit", 0, "Stop after N events (0 = unlimited)")
		payload    = flag.Bool("payload", false, "Print event payload")
	)
	flag.Parse()

	bus, err := eventbus.NewJetStreamBus(*natsURL, *stream, 24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Failed to connect to NATS: %v", err)
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	filter := eventbus.Filter{
		Types:   parseStringList(*eventTypes),
		Sources: parseStringList(*sources),
	}

	fmt.Printf("🎬 Tailing %s on %s (types: %v)\n", *stream, *natsURL, filter.Types)

	var count int64
	sub, err := bus.Subscribe(ctx, filter, func(_ context.Context, ev *eventbus.Envelope) {
		n := atomic.AddInt64(&count, 1)
		printEvent(ev, *payload)
		if *limit > 0 && n >= int64(*limit) {
			cancel()
		}
	})
	if err != nil {
		log.Fatalf("❌ Subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	<-ctx.Done()

	stats := bus.Metrics()
	fmt.Printf("\n📊 Events received: %d (consumed: %d)\n", atomic.LoadInt64(&count), stats.Consumed)
}

// printEvent выводит событие в одну строку
func printEvent(ev *eventbus.Envelope, withPayload bool) {
	fmt.Printf("[%s] %-18s src=%s prio=%d id=%s\n",
		ev.Timestamp.Format(timeFormat), ev.EventType, ev.Source, ev.Priority, ev.ID)
	if withPayload && len(ev.Payload) > 0 {
		fmt.Printf("    %s\n", string(ev.Payload))
	}
}

// parseStringList парсит строку, разделенную запятыми, в слайс
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
