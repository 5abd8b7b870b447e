package get_available_fields

import "errors"

var (
	// ErrInvalidTimeRange возвращается, когда начало диапазона не раньше конца
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
