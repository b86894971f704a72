// Package speaker выводит звуковые сигналы в системный динамик.
// Требует cgo и звуковую подсистему ОС; ядро игры от него не зависит.
package speaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/annel0/fuelcell/internal/audio"
	"github.com/annel0/fuelcell/internal/logging"
	"github.com/gopxl/beep"
	beepspeaker "github.com/gopxl/beep/speaker"
)

var _ audio.Player = (*Player)(nil)

// Player синтезирует сигналы и отправляет их в динамик через микшер
type Player struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	initialized bool
}

// New создаёт плеер; динамик открывается в Init
func New(rate beep.SampleRate, volume float64) *Player {
	if rate <= 0 {
		rate = audio.DefaultSampleRate
	}
	return &Player{
		rate:   rate,
		volume: volume,
		mixer:  &beep.Mixer{},
	}
}

// Init открывает динамик и запускает микшер
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := beepspeaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	beepspeaker.Play(p.mixer)
	p.initialized = true

	logging.Info("🔊 Аудио инициализировано: %d Гц, громкость %.2f", p.rate, p.volume)
	return nil
}

// Play добавляет сигнал в микшер. До Init вызов игнорируется.
func (p *Player) Play(cue audio.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	s := audio.Streamer(cue, p.rate, p.volume)
	if s == nil {
		logging.Warn("🔇 Неизвестный звуковой сигнал %q", cue)
		return
	}

	beepspeaker.Lock()
	p.mixer.Add(s)
	beepspeaker.Unlock()
}

// Close дожидается окончания звучащих сигналов (не дольше wait)
// и останавливает динамик
func (p *Player) Close(wait time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) && p.playing() {
		time.Sleep(10 * time.Millisecond)
	}

	beepspeaker.Lock()
	p.mixer.Clear()
	beepspeaker.Unlock()
	beepspeaker.Close()
	p.initialized = false
}

func (p *Player) playing() bool {
	beepspeaker.Lock()
	defer beepspeaker.Unlock()
	return p.mixer.Len() > 0
}
