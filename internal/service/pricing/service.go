package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// Quote результат расчёта цены за интервал
type Quote struct {
	Amount int64
	Mode   domain.RoundingMode

	// FallbackUsed сигнализирует, что вместо тарифного правила была
	// подставлена ставка по умолчанию (правило не найдено или чтение
	// правил упало). Это не ошибка, но для аудита результат - оценка.
	FallbackUsed bool
}

// Service сервис расчёта цен: резолвер почасовой ставки плюс интегратор
// ставки по 30-минутным блокам
type Service struct {
	ruleRepo RuleRepository
	logger   Logger
}

// NewService создает новый экземпляр pricing-сервиса
func NewService(ruleRepo RuleRepository, logger Logger) *Service {
	return &Service{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// ResolveHourlyRate возвращает почасовую ставку для типа поля и часа суток.
// Из всех правил, чей диапазон [start_hour, end_hour) накрывает час,
// побеждает правило с наибольшим start_hour - последняя наложенная
// администратором надбавка перекрывает базовое расписание.
//
// Если ни одно правило не подходит, возвращается ставка из таблицы по
// умолчанию и fallbackUsed=true. Ошибки чтения правил пробрасываются
// наверх - решение о деградации принимает вызывающий код.
func (s *Service) ResolveHourlyRate(ctx context.Context, fieldType domain.FieldType, hour int) (float64, bool, error) {
	rules, err := s.ruleRepo.ListByFieldType(ctx, fieldType)
	if err != nil {
		return 0, false, fmt.Errorf("ResolveHourlyRate: list rules: %w", err)
	}

	var best *domain.PricingRule
	for _, rule := range rules {
		if !rule.Matches(hour) {
			continue
		}
		if best == nil || rule.StartHour > best.StartHour {
			best = rule
		}
	}

	if best != nil {
		return best.PricePerHour, false, nil
	}

	return defaultHourlyRate(fieldType), true, nil
}

// PriceRange считает стоимость интервала [start, end), проходя его
// 30-минутными блоками от start. Ставка каждого блока определяется по часу
// его начала; последний неполный блок тарифицируется пропорционально.
//
// RoundTotal (режим бронирования): точные суммы блоков складываются и
// округляются один раз в конце. RoundPerBlock (режим сетки дня): каждый
// блок округляется отдельно, затем складывается.
//
// Ошибка чтения правил не роняет расчёт: движок деградирует до оценки по
// ставкам по умолчанию на всю длительность и помечает результат
// FallbackUsed.
func (s *Service) PriceRange(
	ctx context.Context,
	fieldType domain.FieldType,
	start, end types.TimeString,
	mode domain.RoundingMode,
) (*Quote, error) {
	duration, err := start.MinutesUntil(end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: [%s, %s)", ErrInvalidRange, start, end)
	}

	if mode == "" {
		mode = domain.RoundTotal
	}

	var exactSum float64
	var roundedSum int64
	fallbackUsed := false

	cursor := start
	remaining := duration

	for remaining > 0 {
		blockMinutes := domain.BillingBlockMinutes
		if remaining < blockMinutes {
			blockMinutes = remaining
		}

		rate, fb, err := s.ResolveHourlyRate(ctx, fieldType, cursor.Hour())
		if err != nil {
			// Чтение правил упало - считаем оценку по ставкам по умолчанию
			// на всю длительность, бронирование не роняем
			s.logger.Warn("PriceRange: rule lookup failed for type=%s, degrading to default rates: %v", fieldType, err)
			return s.estimateFromDefaults(fieldType, duration, mode), nil
		}
		fallbackUsed = fallbackUsed || fb

		blockAmount := rate * float64(blockMinutes) / 60
		exactSum += blockAmount
		roundedSum += int64(math.Round(blockAmount))

		cursor, err = cursor.AddMinutes(blockMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTime, err)
		}
		remaining -= blockMinutes
	}

	quote := &Quote{Mode: mode, FallbackUsed: fallbackUsed}
	if mode == domain.RoundPerBlock {
		quote.Amount = roundedSum
	} else {
		quote.Amount = int64(math.Round(exactSum))
	}

	return quote, nil
}

// estimateFromDefaults считает оценку по ставке по умолчанию на всю
// длительность (путь деградации при недоступном хранилище правил)
func (s *Service) estimateFromDefaults(fieldType domain.FieldType, durationMinutes int, mode domain.RoundingMode) *Quote {
	rate := defaultHourlyRate(fieldType)
	amount := int64(math.Round(rate * float64(durationMinutes) / 60))

	return &Quote{
		Amount:       amount,
		Mode:         mode,
		FallbackUsed: true,
	}
}

// defaultHourlyRate возвращает ставку по умолчанию для типа поля.
// Для типов вне таблицы бронирования действует плоская ставка пути
// перечисления слотов - две таблицы сознательно не объединены
// (см. domain.DefaultHourlyRates и domain.EnumerationFallbackHourlyRate).
func defaultHourlyRate(fieldType domain.FieldType) float64 {
	if rate, ok := domain.DefaultHourlyRate(fieldType); ok {
		return rate
	}
	return domain.EnumerationFallbackHourlyRate
}
