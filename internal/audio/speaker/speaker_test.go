package speaker

import (
	"testing"
	"time"

	"github.com/annel0/fuelcell/internal/audio"
	"github.com/stretchr/testify/assert"
)

func TestPlayer_PlayBeforeInitIsIgnored(t *testing.T) {
	p := New(0, 1)
	assert.Equal(t, audio.DefaultSampleRate, p.rate)

	assert.NotPanics(t, func() { p.Play(audio.CueStar) })
	assert.Equal(t, 0, p.mixer.Len())
	assert.NotPanics(t, func() { p.Close(time.Second) }, "Close без Init ничего не делает")
}
