package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/pkg/types"
)

type fakeRuleRepo struct {
	rules []*domain.PricingRule
	err   error
}

func (f *fakeRuleRepo) ListByFieldType(_ context.Context, _ domain.FieldType) ([]*domain.PricingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rules, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo RuleRepository) *Service {
	return NewService(repo, nopLogger{})
}

func rule(ft domain.FieldType, startHour, endHour int, price float64) *domain.PricingRule {
	return &domain.PricingRule{
		FieldType:    ft,
		StartHour:    startHour,
		EndHour:      endHour,
		PricePerHour: price,
	}
}

func TestResolveHourlyRate_RuleMatch(t *testing.T) {
	svc := newTestService(&fakeRuleRepo{rules: []*domain.PricingRule{
		rule(domain.FieldType5v5, 6, 22, 200000),
	}})

	rate, fallback, err := svc.ResolveHourlyRate(context.Background(), domain.FieldType5v5, 8)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, 200000.0, rate)
}

func TestResolveHourlyRate_LatestOverrideWins(t *testing.T) {
	// Вечерняя надбавка перекрывает базовое расписание: при пересечении
	// диапазонов побеждает правило с наибольшим start_hour
	svc := newTestService(&fakeRuleRepo{rules: []*domain.PricingRule{
		rule(domain.FieldType5v5, 6, 22, 200000),
		rule(domain.FieldType5v5, 18, 22, 300000),
	}})

	rate, fallback, err := svc.ResolveHourlyRate(context.Background(), domain.FieldType5v5, 19)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, 300000.0, rate)

	// Вне надбавки действует базовое правило
	rate, _, err = svc.ResolveHourlyRate(context.Background(), domain.FieldType5v5, 10)
	require.NoError(t, err)
	assert.Equal(t, 200000.0, rate)
}

func TestResolveHourlyRate_FallbackToDefaults(t *testing.T) {
	svc := newTestService(&fakeRuleRepo{})

	rate, fallback, err := svc.ResolveHourlyRate(context.Background(), domain.FieldType7v7, 10)
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, 300000.0, rate)

	// Неизвестный тип поля получает плоскую ставку перечисления
	rate, fallback, err = svc.ResolveHourlyRate(context.Background(), domain.FieldType("open"), 10)
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, float64(domain.EnumerationFallbackHourlyRate), rate)
}

func TestPriceRange_FullHour(t *testing.T) {
	svc := newTestService(&fakeRuleRepo{rules: []*domain.PricingRule{
		rule(domain.FieldType5v5, 6, 22, 200000),
	}})

	quote, err := svc.PriceRange(context.Background(), domain.FieldType5v5, "08:00", "09:00", domain.RoundTotal)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), quote.Amount)
	assert.False(t, quote.FallbackUsed)
}

func TestPriceRange_PartialFinalBlock(t *testing.T) {
	// 45 минут = полный блок (30 мин) + пропорциональный хвост (15 мин)
	svc := newTestService(&fakeRuleRepo{rules: []*domain.PricingRule{
		rule(domain.FieldType5v5, 6, 22, 200000),
	}})

	quote, err := svc.PriceRange(context.Background(), domain.FieldType5v5, "08:00", "08:45", domain.RoundTotal)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), quote.Amount)
}

func TestPriceRange_CrossesRateBoundary(t *testing.T) {
	// 17:30-18:30: первый блок по дневной ставке, второй по вечерней
	svc := newTestService(&fakeRuleRepo{rules: []*domain.PricingRule{
		rule(domain.FieldType5v5, 6, 18, 200000),
		rule(domain.FieldType5v5, 18, 22, 300000),
	}})

	quote, err := svc.PriceRange(context.Background(), domain.FieldType5v5, "17:30", "18:30", domain.RoundTotal)
	require.NoError(t, err)
	assert.Equal(t, int64(100000+150000), quote.Amount)
}

func TestPriceRange_RoundingModes(t *testing.T) {
	// Ставка с дробной половиной: 111111/час -> 55555.5 за блок.
	// RoundPerBlock округляет каждый блок вверх, RoundTotal - всю сумму
	svc := newTestService(&fakeRuleRepo{rules: []*domain.PricingRule{
		rule(domain.FieldType5v5, 0, 24, 111111),
	}})

	total, err := svc.PriceRange(context.Background(), domain.FieldType5v5, "10:00", "11:00", domain.RoundTotal)
	require.NoError(t, err)
	assert.Equal(t, int64(111111), total.Amount)
	assert.Equal(t, domain.RoundTotal, total.Mode)

	perBlock, err := svc.PriceRange(context.Background(), domain.FieldType5v5, "10:00", "11:00", domain.RoundPerBlock)
	require.NoError(t, err)
	assert.Equal(t, int64(111112), perBlock.Amount)
	assert.Equal(t, domain.RoundPerBlock, perBlock.Mode)
}

func TestPriceRange_Monotonicity(t *testing.T) {
	// Более длинный интервал при тех же ставках не может стоить дешевле
	svc := newTestService(&fakeRuleRepo{rules: []*domain.PricingRule{
		rule(domain.FieldType5v5, 6, 18, 200000),
		rule(domain.FieldType5v5, 18, 22, 300000),
	}})

	var prev int64
	start := types.TimeString("17:00")
	for _, minutes := range []int{30, 60, 90, 120, 150, 180} {
		finish, err := start.AddMinutes(minutes)
		require.NoError(t, err)

		quote, err := svc.PriceRange(context.Background(), domain.FieldType5v5, start, finish, domain.RoundTotal)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, quote.Amount, prev, "duration %d minutes", minutes)
		prev = quote.Amount
	}
}

func TestPriceRange_EmptyRange(t *testing.T) {
	svc := newTestService(&fakeRuleRepo{})

	_, err := svc.PriceRange(context.Background(), domain.FieldType5v5, "10:00", "10:00", domain.RoundTotal)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.PriceRange(context.Background(), domain.FieldType5v5, "11:00", "10:00", domain.RoundTotal)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPriceRange_DegradesOnRepositoryError(t *testing.T) {
	// Недоступное хранилище правил не роняет бронирование: движок
	// возвращает оценку по ставкам по умолчанию с флагом FallbackUsed
	svc := newTestService(&fakeRuleRepo{err: errors.New("connection refused")})

	quote, err := svc.PriceRange(context.Background(), domain.FieldType5v5, "08:00", "09:00", domain.RoundTotal)
	require.NoError(t, err)
	assert.True(t, quote.FallbackUsed)
	assert.Equal(t, int64(200000), quote.Amount)
}

func TestPriceRange_EnumerationCellPrice(t *testing.T) {
	// Ячейка сетки дня для поля неизвестного типа без правил стоит
	// половину плоской ставки перечисления
	svc := newTestService(&fakeRuleRepo{})

	quote, err := svc.PriceRange(context.Background(), domain.FieldType("open"), "06:00", "06:30", domain.RoundPerBlock)
	require.NoError(t, err)
	assert.True(t, quote.FallbackUsed)
	assert.Equal(t, int64(domain.EnumerationFallbackSlotPrice), quote.Amount)
}
