package world

import "errors"

var (
	// ErrConstraintUnsatisfiable размещение не нашло подходящую свободную
	// ячейку за отведённое число попыток или цели превышают ёмкость сетки
	ErrConstraintUnsatisfiable = errors.New("placement constraint unsatisfiable")

	// ErrStateInconsistency сущность присутствует в одной коллекции
	// менеджера, но отсутствует в другой, где обязана быть
	ErrStateInconsistency = errors.New("world state inconsistency")
)
