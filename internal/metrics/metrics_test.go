package metrics

import (
	"testing"
	"time"

	"github.com/annel0/fuelcell/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	g, err := NewGame(reg)
	require.NoError(t, err)

	g.ObserveFrame(0.004)
	g.ObserveFrame(0.020)
	g.PickupCollected("star")
	g.PickupCollected("star")
	g.PickupCollected("goomba")
	g.AddRejections(7)
	g.SetScore(-200)
	g.SetCounts(world.Counts{Blocks: 3, Pickups: 2, Updated: 4, Drawn: 9})

	assert.Equal(t, 2.0, testutil.ToFloat64(g.frames))
	assert.Equal(t, 2.0, testutil.ToFloat64(g.pickups.WithLabelValues("star")))
	assert.Equal(t, 1.0, testutil.ToFloat64(g.pickups.WithLabelValues("goomba")))
	assert.Equal(t, 7.0, testutil.ToFloat64(g.rejections))
	assert.Equal(t, -200.0, testutil.ToFloat64(g.score))
	assert.Equal(t, 9.0, testutil.ToFloat64(g.entities.WithLabelValues("drawn")))
	assert.Equal(t, 3.0, testutil.ToFloat64(g.entities.WithLabelValues("blocks")))
}

func TestGame_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewGame(reg)
	require.NoError(t, err)

	_, err = NewGame(reg)
	assert.Error(t, err, "Повторная регистрация в том же реестре должна давать ошибку")
}

func TestProcess_Collect(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewProcess(reg)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["fuelcell_goroutines"], "Число горутин доступно всегда")
	assert.True(t, names["fuelcell_uptime_seconds"])
	assert.GreaterOrEqual(t, p.Uptime(), time.Duration(0))
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5с", FormatUptime(5*time.Second))
	assert.Equal(t, "2м 5с", FormatUptime(2*time.Minute+5*time.Second))
	assert.Equal(t, "1ч 0м 0с", FormatUptime(time.Hour))
	assert.Equal(t, "1д 1ч 0м 0с", FormatUptime(25*time.Hour))
}

func TestMemoryStats(t *testing.T) {
	stats := MemoryStats()
	assert.Contains(t, stats, "alloc_mb")
	assert.Contains(t, stats, "goroutines")
}
