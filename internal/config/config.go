package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid конфигурация не прошла проверку
var ErrInvalid = errors.New("invalid configuration")

// Config корневая структура конфигурации приложения.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Session   SessionConfig   `yaml:"session"`
	Player    PlayerConfig    `yaml:"player"`
	Storage   StorageConfig   `yaml:"storage"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Server    ServerConfig    `yaml:"server"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorldConfig размеры сетки и цели размещения
type WorldConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Depth       int    `yaml:"depth"`
	Blocks      int    `yaml:"block_count"`
	Stars       int    `yaml:"star_count"`
	Enemies     int    `yaml:"enemy_count"`
	Seed        int64  `yaml:"seed"`         // 0 — сид от времени
	MaxAttempts int    `yaml:"max_attempts"` // Предел попыток на одно размещение
	Manifest    string `yaml:"manifest"`     // YAML с мешами поверх встроенных
}

// SessionConfig параметры игрового цикла
type SessionConfig struct {
	FPS    int `yaml:"fps"`
	Frames int `yaml:"frames"` // 0 — до сигнала остановки
}

// PlayerConfig параметры игрока
type PlayerConfig struct {
	Name  string     `yaml:"name"`  // Имя для таблицы рекордов
	Speed float32    `yaml:"speed"` // Единиц в секунду
	Start [3]float32 `yaml:"start"`
}

// StorageConfig выбор и настройки хранилища таблицы рекордов
type StorageConfig struct {
	Backend string      `yaml:"backend"` // file | memory | badger | redis | maria | mongo
	Path    string      `yaml:"path"`    // file: путь к файлу; badger: каталог
	Redis   RedisConfig `yaml:"redis"`
	Maria   MariaConfig `yaml:"maria"`
	Mongo   MongoConfig `yaml:"mongo"`
}

// RedisConfig подключение к Redis
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// MariaConfig подключение к MariaDB/MySQL
type MariaConfig struct {
	DSN string `yaml:"dsn"`
}

// MongoConfig подключение к MongoDB
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// EventBusConfig шина игровых событий
type EventBusConfig struct {
	URL       string `yaml:"url"` // Пусто — in-memory шина
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

// RetentionDuration срок хранения событий в стриме
func (e EventBusConfig) RetentionDuration() time.Duration {
	return time.Duration(e.Retention) * time.Hour
}

// ServerConfig REST API и метрики
type ServerConfig struct {
	Enabled     bool `yaml:"enabled"`
	RESTPort    int  `yaml:"rest_port"`
	MetricsPort int  `yaml:"metrics_port"`
}

// AudioConfig вывод звука
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// TelemetryConfig трассировка OpenTelemetry
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig уровень и файловый вывод
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  bool   `yaml:"file"`
}

// Default возвращает параметры по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Width:       55,
			Height:      10,
			Depth:       55,
			Blocks:      1000,
			Stars:       80,
			Enemies:     50,
			MaxAttempts: 100000,
		},
		Session: SessionConfig{FPS: 60, Frames: 3600},
		Player: PlayerConfig{
			Name:  "AAA",
			Speed: 40,
			Start: [3]float32{60, 2, 75},
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "scores.txt",
			Redis:   RedisConfig{Addr: "localhost:6379", Key: "fuelcell:leaderboard"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "fuelcell", Collection: "leaderboard"},
		},
		EventBus: EventBusConfig{Stream: "FUELCELL", Retention: 24, Buffer: 1024},
		Audio:    AudioConfig{SampleRate: 44100, Volume: 0.5},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4318",
			ServiceName: "fuelcell",
			SampleRatio: 1,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "FUELCELL_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "FUELCELL_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV FUELCELL_CONFIG; если и он
// пуст, возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("FUELCELL_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Capacity число ячеек сетки, доступных размещению
func (w WorldConfig) Capacity() int {
	if w.Width < 2 || w.Height < 2 || w.Depth < 2 {
		return 0
	}
	return (w.Width - 1) * (w.Height - 1) * (w.Depth - 1)
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	w := c.World
	if w.Width < 2 || w.Height < 2 || w.Depth < 2 {
		return fmt.Errorf("world %dx%dx%d: each dimension must be at least 2: %w", w.Width, w.Height, w.Depth, ErrInvalid)
	}
	if w.Blocks < 0 || w.Stars < 0 || w.Enemies < 0 {
		return fmt.Errorf("world counts must not be negative: %w", ErrInvalid)
	}
	if total := w.Blocks + w.Stars + w.Enemies; total > w.Capacity() {
		return fmt.Errorf("world targets %d exceed capacity %d: %w", total, w.Capacity(), ErrInvalid)
	}
	if w.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative: %w", ErrInvalid)
	}
	if c.Session.FPS <= 0 {
		return fmt.Errorf("session fps %d: %w", c.Session.FPS, ErrInvalid)
	}
	if c.Session.Frames < 0 {
		return fmt.Errorf("session frames %d: %w", c.Session.Frames, ErrInvalid)
	}
	if c.Player.Speed < 0 {
		return fmt.Errorf("player speed %v: %w", c.Player.Speed, ErrInvalid)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio volume %v outside [0, 1]: %w", c.Audio.Volume, ErrInvalid)
	}
	switch c.Storage.Backend {
	case "file", "memory", "badger", "redis", "maria", "mongo":
	default:
		return fmt.Errorf("storage backend %q: %w", c.Storage.Backend, ErrInvalid)
	}
	return nil
}

// FrameDuration длительность кадра
func (s SessionConfig) FrameDuration() time.Duration {
	return time.Second / time.Duration(s.FPS)
}
