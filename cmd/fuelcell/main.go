package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/annel0/fuelcell/internal/api"
	"github.com/annel0/fuelcell/internal/audio"
	"github.com/annel0/fuelcell/internal/audio/speaker"
	"github.com/annel0/fuelcell/internal/config"
	"github.com/annel0/fuelcell/internal/content"
	"github.com/annel0/fuelcell/internal/eventbus"
	"github.com/annel0/fuelcell/internal/logging"
	"github.com/annel0/fuelcell/internal/metrics"
	"github.com/annel0/fuelcell/internal/observability"
	"github.com/annel0/fuelcell/internal/player"
	"github.com/annel0/fuelcell/internal/session"
	"github.com/annel0/fuelcell/internal/storage"
	"github.com/gopxl/beep"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (default: $FUELCELL_CONFIG)")
		frames     = flag.Int("frames", -1, "Frames to run, 0 = until signal (overrides config)")
		seed       = flag.Int64("seed", 0, "World seed (overrides config)")
		serve      = flag.Bool("serve", false, "Enable REST API (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if *frames >= 0 {
		cfg.Session.Frames = *frames
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *serve {
		cfg.Server.Enabled = true
	}

	if cfg.Logging.File {
		if err := logging.InitDefaultLogger("fuelcell"); err != nil {
			log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
		}
	}
	defer logging.CloseDefaultLogger()
	logging.SetConsoleLevel(logging.ParseLevel(cfg.Logging.Level))

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("🎮 Запуск FuelCell: мир %dx%dx%d, %d кадров при %d fps",
		cfg.World.Width, cfg.World.Height, cfg.World.Depth, cfg.Session.Frames, cfg.Session.FPS)

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("📡 Ошибка остановки телеметрии: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()
	game, err := metrics.NewGame(registry)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if _, err := metrics.NewProcess(registry); err != nil {
		logging.Warn("📊 Метрики процесса недоступны: %v", err)
	}

	// === ХРАНИЛИЩЕ ===
	leaderboard, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer leaderboard.Close()

	// === ШИНА СОБЫТИЙ ===
	bus, err := openBus(cfg.EventBus)
	if err != nil {
		return err
	}
	closeBus := sync.OnceValue(bus.Close)
	defer closeBus()

	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		return fmt.Errorf("event logging: %w", err)
	}
	exporter, err := eventbus.NewMetricsExporter(bus, registry)
	if err != nil {
		return fmt.Errorf("eventbus metrics: %w", err)
	}
	exporter.Start()
	defer exporter.Stop()

	// === ЗВУК ===
	var output audio.Player = audio.Nop{}
	if cfg.Audio.Enabled {
		sp := speaker.New(beep.SampleRate(cfg.Audio.SampleRate), cfg.Audio.Volume)
		if err := sp.Init(); err != nil {
			logging.Warn("🔇 Звук отключён: %v", err)
		} else {
			output = sp
			defer closeAudio(closeBus, sp, cueTail)
		}
	}
	if _, err := audio.Listen(context.Background(), bus, output); err != nil {
		return fmt.Errorf("audio listener: %w", err)
	}

	// === СЕССИЯ ===
	catalog := content.NewBuiltinCatalog()
	if cfg.World.Manifest != "" {
		catalog, err = content.LoadManifest(cfg.World.Manifest, catalog)
		if err != nil {
			return fmt.Errorf("content manifest: %w", err)
		}
	}

	s, err := session.New(ctx, session.Options{
		Config:      cfg,
		Catalog:     catalog,
		Leaderboard: leaderboard,
		Audio:       audio.NewBusPlayer(bus, "fuelcell"),
		Bus:         bus,
		Metrics:     game,
		Controller:  player.NewNoiseController(cfg.World.Seed),
	})
	if err != nil {
		return err
	}

	// === HTTP ===
	if cfg.Server.Enabled {
		rest, err := api.NewRestServer(api.Config{
			Port:     cfg.Server.GetRESTPort(),
			Session:  s,
			Registry: registry,
		})
		if err != nil {
			return err
		}
		rest.Start()
		defer func() {
			if err := rest.Shutdown(context.Background()); err != nil {
				logging.Error("❌ Ошибка остановки REST API: %v", err)
			}
		}()
	} else if cfg.Server.MetricsPort > 0 {
		metricsServer := serveMetrics(cfg.Server.GetMetricsPort(), registry)
		defer metricsServer.Close()
	}

	if err := s.Start(ctx); err != nil {
		return err
	}
	loop(ctx, s, cfg.Session)

	res, err := s.End(context.Background())
	if err != nil {
		logging.Error("❌ Ошибка сохранения таблицы рекордов: %v", err)
	}
	if res.Qualified {
		logging.Info("🏆 Рекорд! %s: %d (место %d)", res.Name, res.Score, res.Rank)
	} else {
		logging.Info("💀 Счёт %d не попал в таблицу", res.Score)
	}

	logging.Info("👋 FuelCell завершён")
	return nil
}

// cueTail сколько ждать доигрывания последних сигналов при выходе
const cueTail = time.Second

type drainCloser interface {
	Close(wait time.Duration)
}

// closeAudio сначала закрывает шину, доставляя принятые сигналы в динамик,
// затем ждёт их доигрывания и закрывает динамик
func closeAudio(closeBus func() error, out drainCloser, wait time.Duration) {
	if err := closeBus(); err != nil {
		logging.Warn("📨 Ошибка закрытия шины событий: %v", err)
	}
	out.Close(wait)
}

// loop крутит кадры с фиксированным шагом до лимита кадров или сигнала
func loop(ctx context.Context, s *session.Session, cfg config.SessionConfig) {
	ticker := time.NewTicker(cfg.FrameDuration())
	defer ticker.Stop()

	dt := cfg.FrameDuration().Seconds()
	for frame := 0; cfg.Frames == 0 || frame < cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			logging.Info("📡 Получен сигнал завершения после %d кадров", frame)
			return
		case <-ticker.C:
			s.Step(dt)
		}
	}
}

func openBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		return eventbus.NewMemoryBus(cfg.Buffer), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, cfg.RetentionDuration())
	if err != nil {
		return nil, fmt.Errorf("eventbus: %w", err)
	}
	return bus, nil
}

func serveMetrics(port int, g prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logging.Info("📊 Метрики Prometheus на порту %d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("❌ Ошибка сервера метрик: %v", err)
		}
	}()
	return srv
}
