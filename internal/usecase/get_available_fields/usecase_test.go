package get_available_fields

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/internal/service/pricing"
	"github.com/futbook/FieldBookingService/pkg/types"
)

type fakeFieldRepo struct {
	fields []*domain.Field

	requestedTypes []domain.FieldType
}

func (f *fakeFieldRepo) ListActiveByTypes(_ context.Context, fieldTypes []domain.FieldType) ([]*domain.Field, error) {
	f.requestedTypes = fieldTypes
	return f.fields, nil
}

// fakeConflicts отмечает занятые поля по ID
type fakeConflicts struct {
	busyFields map[int64]bool
}

func (f *fakeConflicts) HasConflict(_ context.Context, fieldID int64, _ time.Time, _, _ types.TimeString, _ *int64) (bool, error) {
	return f.busyFields[fieldID], nil
}

type fakePricing struct {
	amount   int64
	fallback bool
}

func (f *fakePricing) PriceRange(_ context.Context, _ domain.FieldType, _, _ types.TimeString, mode domain.RoundingMode) (*pricing.Quote, error) {
	return &pricing.Quote{Amount: f.amount, Mode: mode, FallbackUsed: f.fallback}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func field(id int64, name string, ft domain.FieldType) *domain.Field {
	return &domain.Field{ID: id, Name: name, Type: ft, Active: true}
}

func validRequest() *Request {
	return &Request{
		Date:      "2025-06-01",
		StartTime: "18:00",
		EndTime:   "19:30",
	}
}

func TestExecute_FiltersBusyFields(t *testing.T) {
	fields := &fakeFieldRepo{fields: []*domain.Field{
		field(1, "Арена Север", domain.FieldType5v5),
		field(2, "Арена Юг", domain.FieldType7v7),
		field(3, "Арена Запад", domain.FieldType11v11),
	}}
	conflicts := &fakeConflicts{busyFields: map[int64]bool{2: true}}

	uc := NewUseCase(fields, conflicts, &fakePricing{amount: 450000}, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, resp.Fields, 2)
	assert.Equal(t, int64(1), resp.Fields[0].ID)
	assert.Equal(t, int64(3), resp.Fields[1].ID)

	// Каждое свободное поле аннотировано одним слотом - запрошенным
	// диапазоном с его стоимостью
	for _, f := range resp.Fields {
		require.Len(t, f.Slots, 1)
		assert.Equal(t, "18:00", f.Slots[0].StartTime)
		assert.Equal(t, "19:30", f.Slots[0].EndTime)
		assert.Equal(t, int64(450000), f.Slots[0].Price)
	}
}

func TestExecute_PassesTypeFilter(t *testing.T) {
	fields := &fakeFieldRepo{}
	uc := NewUseCase(fields, &fakeConflicts{}, &fakePricing{}, nopLogger{})

	req := validRequest()
	req.FieldTypes = []string{"5vs5", "7vs7"}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []domain.FieldType{domain.FieldType5v5, domain.FieldType7v7}, fields.requestedTypes)
}

func TestExecute_EstimateFlagPropagates(t *testing.T) {
	fields := &fakeFieldRepo{fields: []*domain.Field{
		field(1, "Арена Север", domain.FieldType5v5),
	}}

	uc := NewUseCase(fields, &fakeConflicts{}, &fakePricing{amount: 200000, fallback: true}, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, resp.Fields, 1)
	assert.True(t, resp.Fields[0].Slots[0].PriceIsEstimate)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeFieldRepo{}, &fakeConflicts{}, &fakePricing{}, nopLogger{})

	req := validRequest()
	req.EndTime = "18:00"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	req = validRequest()
	req.Date = "june 1"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.StartTime = "25:00"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
