package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoise_DeterministicAndBounded(t *testing.T) {
	a := NewNoise(42)
	b := NewNoise(42)

	for i := 0; i < 100; i++ {
		x := float64(i) * 0.37
		assert.Equal(t, a.Noise2D(x, x/2), b.Noise2D(x, x/2), "Одинаковый сид даёт одинаковый шум")

		v := a.Noise2D(x, 1.5)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)

		w := a.Noise1D(x)
		assert.GreaterOrEqual(t, w, -1.0)
		assert.LessOrEqual(t, w, 1.0)
	}
	assert.Equal(t, int64(42), a.Seed())
}
