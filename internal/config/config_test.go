package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_GameValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 55, cfg.World.Width)
	assert.Equal(t, 10, cfg.World.Height)
	assert.Equal(t, 55, cfg.World.Depth)
	assert.Equal(t, 1000, cfg.World.Blocks)
	assert.Equal(t, 80, cfg.World.Stars)
	assert.Equal(t, 50, cfg.World.Enemies)
	assert.Equal(t, 60, cfg.Session.FPS)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Setenv("FUELCELL_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuelcell.yaml")
	data := []byte(`
world:
  width: 10
  height: 3
  depth: 10
  block_count: 5
  star_count: 2
  enemy_count: 1
  seed: 42
storage:
  backend: memory
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	t.Setenv("FUELCELL_CONFIG", path)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.World.Width)
	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 100000, cfg.World.MaxAttempts, "Незаданные поля берутся из значений по умолчанию")
}

func TestValidate_CapacityExceeded(t *testing.T) {
	cfg := Default()
	cfg.World = WorldConfig{Width: 3, Height: 2, Depth: 3, Blocks: 5}

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "capacity 4")
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(c *Config){}
	cases["малая сетка"] = func(c *Config) { c.World.Height = 1 }
	cases["отрицательные цели"] = func(c *Config) { c.World.Stars = -1 }
	cases["нулевой fps"] = func(c *Config) { c.Session.FPS = 0 }
	cases["неизвестное хранилище"] = func(c *Config) { c.Storage.Backend = "tape" }
	cases["громкость"] = func(c *Config) { c.Audio.Volume = 2 }

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world: [1, 2"), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPortsWithEnvFallback(t *testing.T) {
	s := ServerConfig{}
	t.Setenv("FUELCELL_REST_PORT", "9090")
	t.Setenv("FUELCELL_METRICS_PORT", "")

	assert.Equal(t, 9090, s.GetRESTPort())
	assert.Equal(t, 2112, s.GetMetricsPort())

	s.RESTPort = 7000
	assert.Equal(t, 7000, s.GetRESTPort(), "Значение конфига приоритетнее окружения")
}

func TestDurations(t *testing.T) {
	assert.Equal(t, time.Second/60, SessionConfig{FPS: 60}.FrameDuration())
	assert.Equal(t, 24*time.Hour, EventBusConfig{Retention: 24}.RetentionDuration())
}
