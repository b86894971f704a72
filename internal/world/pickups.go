package world

import (
	"github.com/annel0/fuelcell/internal/audio"
	"github.com/annel0/fuelcell/internal/world/entity"
)

// Effects получатель последствий подбора: счёт, показатели, звук.
// Реализуется сессией.
type Effects interface {
	AddScore(delta int)
	AdjustVitals(energy, adrenaline int)
	PlayCue(cue audio.Cue)
	PickupCollected(kind entity.Kind)
}

// PickupEffect последствия столкновения с предметом
type PickupEffect struct {
	Score      int
	Energy     int
	Adrenaline int
	Cue        audio.Cue
}

var (
	// StarEffect бонус звезды
	StarEffect = PickupEffect{Score: 200, Energy: 10, Adrenaline: 10, Cue: audio.CueStar}
	// GoombaEffect штраф врага
	GoombaEffect = PickupEffect{Score: -400, Energy: -10, Cue: audio.CueGoomba}
)

// EffectFor возвращает последствия для типа предмета
func EffectFor(kind entity.Kind) (PickupEffect, bool) {
	switch kind {
	case entity.KindStar:
		return StarEffect, true
	case entity.KindGoomba:
		return GoombaEffect, true
	default:
		return PickupEffect{}, false
	}
}

// pickupResponder удаляет предмет из всех коллекций и применяет эффект.
// Повторный вызов для уже удалённого предмета ничего не делает.
func (m *Manager) pickupResponder(effect PickupEffect) entity.Responder {
	return func(e *entity.Entity) {
		if !m.IsPickup(e) {
			return
		}
		m.Remove(e)

		if m.effects == nil {
			return
		}
		m.effects.AddScore(effect.Score)
		m.effects.AdjustVitals(effect.Energy, effect.Adrenaline)
		m.effects.PlayCue(effect.Cue)
		m.effects.PickupCollected(e.Kind)
	}
}
