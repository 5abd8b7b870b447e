package create_booking

import (
	"context"
	"time"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/internal/service/pricing"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByFieldAndDate(ctx context.Context, filter domain.FieldDayFilter) ([]*domain.Booking, error)
	GetLatestCancelledAtSlot(ctx context.Context, fieldID int64, date time.Time, startTime, endTime types.TimeString) (*domain.Booking, error)
	Revive(ctx context.Context, id int64, userID int64, totalAmount int64, paymentMethod string, notes *string) (*domain.Booking, error)
	DeleteCancelledAtSlotBefore(ctx context.Context, fieldID int64, date time.Time, startTime, endTime types.TimeString, cutoff time.Time) (int64, error)
}

// FieldRepository интерфейс репозитория полей
type FieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}

// PricingService интерфейс сервиса расчёта цен
type PricingService interface {
	PriceRange(ctx context.Context, fieldType domain.FieldType, start, end types.TimeString, mode domain.RoundingMode) (*pricing.Quote, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
