package list_conflicts

import (
	"context"
	"time"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/pkg/types"
)

type BookingService interface {
	ListConflicts(ctx context.Context, fieldID int64, date time.Time, startTime, endTime types.TimeString, excludeBookingID *int64) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
