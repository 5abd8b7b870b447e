package get_day_slots

import (
	"context"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/internal/service/pricing"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// FieldRepository интерфейс репозитория полей
type FieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByFieldAndDate(ctx context.Context, filter domain.FieldDayFilter) ([]*domain.Booking, error)
}

// PricingService интерфейс сервиса расчёта цен
type PricingService interface {
	PriceRange(ctx context.Context, fieldType domain.FieldType, start, end types.TimeString, mode domain.RoundingMode) (*pricing.Quote, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
