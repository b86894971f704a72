package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise генератор шума Перлина с собственным сидом
type Noise struct {
	seed int64
	p    *perlin.Perlin
}

// NewNoise создаёт генератор шума с указанным сидом
func NewNoise(seed int64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Noise{seed: seed, p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Seed возвращает сид генератора
func (n *Noise) Seed() int64 {
	return n.seed
}

// Noise1D возвращает значение шума для t в диапазоне от -1 до 1
func (n *Noise) Noise1D(t float64) float64 {
	return clampUnit(n.p.Noise1D(t))
}

// Noise2D возвращает значение шума для (x, y) в диапазоне от 0 до 1
func (n *Noise) Noise2D(x, y float64) float64 {
	return (clampUnit(n.p.Noise2D(x, y)) + 1.0) / 2.0
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
