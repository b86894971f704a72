package audio

import "sync"

// Cue имя звукового сигнала
type Cue string

const (
	CueStar   Cue = "star"
	CueGoomba Cue = "goomba"
	CueWin    Cue = "win"
	CueLose   Cue = "lose"
	CueMenu   Cue = "menu"
	CuePlay   Cue = "play"
	CuePause  Cue = "pause"
)

// Player воспроизводит сигналы по принципу fire-and-forget
type Player interface {
	Play(cue Cue)
}

// Nop игнорирует все сигналы
type Nop struct{}

// Play ничего не делает
func (Nop) Play(Cue) {}

// Recorder запоминает запрошенные сигналы (для тестов и headless-режима)
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

// Play записывает сигнал
func (r *Recorder) Play(cue Cue) {
	r.mu.Lock()
	r.cues = append(r.cues, cue)
	r.mu.Unlock()
}

// Cues возвращает копию записанных сигналов
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Cue, len(r.cues))
	copy(out, r.cues)
	return out
}

// Reset очищает запись
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.cues = nil
	r.mu.Unlock()
}
