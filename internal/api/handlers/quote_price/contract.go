package quote_price

import (
	"context"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/internal/service/pricing"
	"github.com/futbook/FieldBookingService/pkg/types"
)

type FieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}

type PricingService interface {
	PriceRange(ctx context.Context, fieldType domain.FieldType, start, end types.TimeString, mode domain.RoundingMode) (*pricing.Quote, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
