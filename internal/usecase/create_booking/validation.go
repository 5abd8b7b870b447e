package create_booking

import (
	"fmt"
	"time"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// parsedRequest результат валидации запроса: разобранные дата и времена
type parsedRequest struct {
	date      time.Time
	startTime types.TimeString
	endTime   types.TimeString
}

// validateRequest проверяет запрос и разбирает дату и времена слота.
// Выполняется до любого обращения к хранилищу: запрос с некорректной
// длительностью или диапазоном не оставляет следов в базе.
func validateRequest(req *Request) (*parsedRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if req.FieldID <= 0 {
		return nil, fmt.Errorf("%w: fieldId must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}
	if req.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: paymentMethod is required", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	date, err := time.Parse(domain.DateFormat, req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bookingDate must be in format %s", ErrInvalidInput, domain.DateFormat)
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	endTime, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}

	if !startTime.IsBefore(endTime) {
		return nil, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, startTime, endTime)
	}

	duration, err := startTime.MinutesUntil(endTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if duration < domain.MinBookingDurationMinutes || duration > domain.MaxBookingDurationMinutes {
		return nil, fmt.Errorf("%w: duration %d minutes, allowed range [%d, %d]",
			ErrInvalidDuration, duration, domain.MinBookingDurationMinutes, domain.MaxBookingDurationMinutes)
	}

	return &parsedRequest{
		date:      date,
		startTime: startTime,
		endTime:   endTime,
	}, nil
}
