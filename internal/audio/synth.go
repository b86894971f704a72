package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// DefaultSampleRate частота дискретизации синтезатора
const DefaultSampleRate = beep.SampleRate(44100)

// note один тон мелодии сигнала
type note struct {
	freq     float64
	duration time.Duration
}

// melodies тоны каждого сигнала
var melodies = map[Cue][]note{
	CueStar:   {{988, 60 * time.Millisecond}, {1319, 120 * time.Millisecond}},
	CueGoomba: {{220, 80 * time.Millisecond}, {147, 160 * time.Millisecond}},
	CueWin:    {{523, 120 * time.Millisecond}, {659, 120 * time.Millisecond}, {784, 120 * time.Millisecond}, {1047, 300 * time.Millisecond}},
	CueLose:   {{392, 200 * time.Millisecond}, {330, 200 * time.Millisecond}, {262, 400 * time.Millisecond}},
	CueMenu:   {{440, 80 * time.Millisecond}},
	CuePlay:   {{660, 80 * time.Millisecond}, {880, 80 * time.Millisecond}},
	CuePause:  {{880, 80 * time.Millisecond}, {660, 80 * time.Millisecond}},
}

// tone синусоида фиксированной длины с линейным затуханием
type tone struct {
	freq     float64
	rate     beep.SampleRate
	position int
	total    int
}

func newTone(freq float64, duration time.Duration, rate beep.SampleRate) *tone {
	return &tone{freq: freq, rate: rate, total: rate.N(duration)}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}

		env := 1 - float64(t.position)/float64(t.total)
		val := env * math.Sin(2*math.Pi*t.freq*float64(t.position)/float64(t.rate))

		samples[i][0] = val
		samples[i][1] = val
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Streamer собирает поток сигнала с громкостью volume (0..1).
// Для неизвестного сигнала возвращает nil.
func Streamer(cue Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	notes, ok := melodies[cue]
	if !ok {
		return nil
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, newTone(n.freq, n.duration, rate))
	}
	seq := beep.Seq(parts...)

	if volume <= 0 {
		return &effects.Volume{Streamer: seq, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: seq, Base: 2, Volume: math.Log2(volume)}
}

// Duration суммарная длительность сигнала
func Duration(cue Cue) time.Duration {
	var total time.Duration
	for _, n := range melodies[cue] {
		total += n.duration
	}
	return total
}
