package audio

import (
	"context"
	"testing"
	"time"

	"github.com/annel0/fuelcell/internal/eventbus"
	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Play(CueStar)
	r.Play(CueGoomba)

	assert.Equal(t, []Cue{CueStar, CueGoomba}, r.Cues())
	r.Reset()
	assert.Empty(t, r.Cues())
}

func TestStreamer_LengthMatchesMelody(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := Streamer(CueStar, rate, 1)
	require.NotNil(t, s)

	want := 0
	for _, n := range melodies[CueStar] {
		want += rate.N(n.duration)
	}
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}

	assert.Equal(t, want, total, "Поток должен содержать ровно все тоны сигнала")
	assert.Nil(t, Streamer(Cue("unknown"), rate, 1))
}

func TestStreamer_Silent(t *testing.T) {
	s := Streamer(CueWin, beep.SampleRate(8000), 0)
	buf := make([][2]float64, 64)
	n, _ := s.Stream(buf)

	require.Greater(t, n, 0)
	for i := 0; i < n; i++ {
		assert.Equal(t, 0.0, buf[i][0])
	}
}

func TestBusPlayer_DeliversToListener(t *testing.T) {
	bus := eventbus.NewMemoryBus(8)

	rec := &Recorder{}
	_, err := Listen(context.Background(), bus, rec)
	require.NoError(t, err)

	p := NewBusPlayer(bus, "session")
	p.Play(CueStar)
	p.Play(CueLose)

	require.NoError(t, bus.Close())
	assert.Equal(t, []Cue{CueStar, CueLose}, rec.Cues())
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 180*time.Millisecond, Duration(CueStar))
	assert.Equal(t, time.Duration(0), Duration(Cue("unknown")))
}
