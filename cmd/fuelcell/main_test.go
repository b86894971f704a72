package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/annel0/fuelcell/internal/audio"
	"github.com/annel0/fuelcell/internal/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSpeaker пишет события воспроизведения и закрытия в общий журнал
type fakeSpeaker struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeSpeaker) Play(cue audio.Cue) {
	f.mu.Lock()
	f.events = append(f.events, "play:"+string(cue))
	f.mu.Unlock()
}

func (f *fakeSpeaker) Close(wait time.Duration) {
	f.mu.Lock()
	f.events = append(f.events, "close")
	f.mu.Unlock()
}

func TestCloseAudio_LastCueReachesSpeaker(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	closeBus := sync.OnceValue(bus.Close)

	out := &fakeSpeaker{}
	_, err := audio.Listen(context.Background(), bus, out)
	require.NoError(t, err)

	audio.NewBusPlayer(bus, "session").Play(audio.CueWin)
	closeAudio(closeBus, out, time.Second)

	assert.Equal(t, []string{"play:win", "close"}, out.events, "Сигнал конца игры доходит до динамика раньше закрытия")
	assert.NoError(t, closeBus(), "Повторное закрытие шины безопасно")
}
