package pricing

import (
	"context"

	"github.com/futbook/FieldBookingService/internal/domain"
)

// RuleRepository интерфейс репозитория тарифных правил
type RuleRepository interface {
	ListByFieldType(ctx context.Context, fieldType domain.FieldType) ([]*domain.PricingRule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
