package player

import (
	"math"

	"github.com/annel0/fuelcell/internal/util"
	"github.com/go-gl/mathgl/mgl32"
)

// NoiseController автопилот для безголовых сессий: курс плавно меняется
// по шуму Перлина, движение остаётся в горизонтальной плоскости
type NoiseController struct {
	noise *util.Noise
	t     float64
	rate  float64
}

// NewNoiseController создаёт автопилот с сидом seed
func NewNoiseController(seed int64) *NoiseController {
	return &NoiseController{noise: util.NewNoise(seed), rate: 0.5}
}

// Intent возвращает единичное направление в плоскости XZ
func (c *NoiseController) Intent(dt float64) mgl32.Vec3 {
	c.t += dt * c.rate
	heading := c.noise.Noise2D(c.t, 0.5) * 4 * math.Pi

	return mgl32.Vec3{float32(math.Cos(heading)), 0, float32(math.Sin(heading))}
}
