package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInvalidStatus возвращается при попытке установить неизвестный статус
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
