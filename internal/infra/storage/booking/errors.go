package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicateSlot возвращается, когда вставка нарушает уникальность
	// (field_id, booking_date, start_time, end_time) - ровно этот слот уже
	// занят существующей строкой (вызывающий код переходит на revive)
	ErrDuplicateSlot = errors.New("booking.repository: slot already occupied by existing row")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
