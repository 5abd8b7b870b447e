package pricing

import "errors"

var (
	// ErrInvalidRange возвращается при нулевой или отрицательной длительности
	ErrInvalidRange = errors.New("pricing: invalid time range")

	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = errors.New("pricing: invalid time value")
)
