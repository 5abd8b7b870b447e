package create_booking

import "errors"

var (
	// ErrFieldNotFound возвращается, когда поле не найдено
	ErrFieldNotFound = errors.New("field not found")

	// ErrFieldInactive возвращается при попытке забронировать неактивное поле
	ErrFieldInactive = errors.New("field is not active")

	// ErrInvalidTimeRange возвращается, когда начало слота не раньше конца
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidDuration возвращается при длительности вне допустимых границ
	ErrInvalidDuration = errors.New("invalid booking duration")

	// ErrSlotConflict возвращается, когда слот пересекается с активным бронированием
	ErrSlotConflict = errors.New("slot conflicts with an existing booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
