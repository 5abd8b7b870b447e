package get_day_slots

import "errors"

var (
	// ErrFieldNotFound возвращается, когда поле не найдено
	ErrFieldNotFound = errors.New("field not found")

	// ErrFieldInactive возвращается для неактивного поля
	ErrFieldInactive = errors.New("field is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
