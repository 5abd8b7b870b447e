package get_available_fields

import (
	"context"
	"time"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/internal/service/pricing"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// FieldRepository интерфейс репозитория полей
type FieldRepository interface {
	ListActiveByTypes(ctx context.Context, fieldTypes []domain.FieldType) ([]*domain.Field, error)
}

// ConflictChecker интерфейс проверки конфликтов слота
// Реализуется сервисом бронирований - тот же предикат пересечения, что и
// на пути создания бронирования
type ConflictChecker interface {
	HasConflict(ctx context.Context, fieldID int64, date time.Time, startTime, endTime types.TimeString, excludeBookingID *int64) (bool, error)
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
