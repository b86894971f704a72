package session

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition переход между фазами не разрешён
var ErrInvalidTransition = errors.New("invalid session phase transition")

// Phase состояние конечного автомата сессии
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhasePaused
	PhaseFinished
)

// String возвращает строковое представление фазы
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText позволяет отдавать фазу в JSON строкой
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// transitions допустимые переходы: Idle → Playing ⇄ Paused → Finished → Idle
var transitions = map[Phase][]Phase{
	PhaseIdle:     {PhasePlaying},
	PhasePlaying:  {PhasePaused, PhaseFinished},
	PhasePaused:   {PhasePlaying, PhaseFinished},
	PhaseFinished: {PhaseIdle},
}

// CanTransition проверяет, разрешён ли переход from → to
func CanTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// machine хранит фазу и вызывает обработчики входа и выхода
type machine struct {
	current Phase
	onEnter map[Phase]func()
	onExit  map[Phase]func()
}

func newMachine() *machine {
	return &machine{
		current: PhaseIdle,
		onEnter: make(map[Phase]func()),
		onExit:  make(map[Phase]func()),
	}
}

// transition меняет фазу: Exit старой, затем Enter новой
func (m *machine) transition(to Phase) error {
	if !CanTransition(m.current, to) {
		return fmt.Errorf("%s → %s: %w", m.current, to, ErrInvalidTransition)
	}

	if exit := m.onExit[m.current]; exit != nil {
		exit()
	}
	m.current = to
	if enter := m.onEnter[to]; enter != nil {
		enter()
	}
	return nil
}
