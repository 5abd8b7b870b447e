package get_day_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futbook/FieldBookingService/internal/domain"
	fieldStorage "github.com/futbook/FieldBookingService/internal/infra/storage/field"
	"github.com/futbook/FieldBookingService/internal/service/pricing"
	"github.com/futbook/FieldBookingService/pkg/types"
)

type fakeFieldRepo struct {
	field *domain.Field
	err   error
}

func (f *fakeFieldRepo) GetByID(_ context.Context, _ int64) (*domain.Field, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.field, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetByFieldAndDate(_ context.Context, filter domain.FieldDayFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.FieldID == filter.FieldID {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakePricing struct {
	perCell int64
}

func (f *fakePricing) PriceRange(_ context.Context, _ domain.FieldType, _, _ types.TimeString, mode domain.RoundingMode) (*pricing.Quote, error) {
	return &pricing.Quote{Amount: f.perCell, Mode: mode}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newFixture(bookings ...*domain.Booking) *UseCase {
	return NewUseCase(
		&fakeFieldRepo{field: &domain.Field{
			ID:     10,
			Name:   "Арена Север",
			Type:   domain.FieldType5v5,
			Active: true,
		}},
		&fakeBookingRepo{bookings: bookings},
		&fakePricing{perCell: 100000},
		nopLogger{},
	)
}

func booking(start, end types.TimeString, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		FieldID:     10,
		BookingDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:   start,
		EndTime:     end,
		Status:      status,
	}
}

func TestExecute_EmptyDayYieldsFullGrid(t *testing.T) {
	uc := newFixture()

	resp, err := uc.Execute(context.Background(), &Request{FieldID: 10, Date: "2025-06-01"})
	require.NoError(t, err)

	// Рабочее окно 06:00-22:00 = 16 часов = 32 ячейки по 30 минут
	require.Len(t, resp.Slots, 32)
	assert.Equal(t, "06:00", resp.Slots[0].StartTime)
	assert.Equal(t, "06:30", resp.Slots[0].EndTime)
	assert.Equal(t, "21:30", resp.Slots[31].StartTime)
	assert.Equal(t, "22:00", resp.Slots[31].EndTime)

	for _, slot := range resp.Slots {
		assert.Equal(t, int64(100000), slot.Price)
	}
}

func TestExecute_BookedCellsExcluded(t *testing.T) {
	uc := newFixture(
		booking("10:00", "11:30", domain.StatusApproved),
	)

	resp, err := uc.Execute(context.Background(), &Request{FieldID: 10, Date: "2025-06-01"})
	require.NoError(t, err)

	// 3 ячейки заняты: 10:00, 10:30, 11:00
	require.Len(t, resp.Slots, 29)
	for _, slot := range resp.Slots {
		assert.False(t, slot.StartTime >= "10:00" && slot.StartTime < "11:30",
			"cell %s must be excluded", slot.StartTime)
	}
}

func TestExecute_CancelledBookingFreesCells(t *testing.T) {
	uc := newFixture(
		booking("10:00", "11:30", domain.StatusCancelled),
	)

	resp, err := uc.Execute(context.Background(), &Request{FieldID: 10, Date: "2025-06-01"})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 32)
}

func TestExecute_BookingOutsideWindowDoesNotAffectGrid(t *testing.T) {
	// Бронирование, касающееся границы окна снаружи, ячеек не занимает
	uc := newFixture(
		booking("05:00", "06:00", domain.StatusApproved),
		booking("22:00", "23:00", domain.StatusApproved),
	)

	resp, err := uc.Execute(context.Background(), &Request{FieldID: 10, Date: "2025-06-01"})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 32)
}

func TestExecute_FieldErrors(t *testing.T) {
	uc := NewUseCase(
		&fakeFieldRepo{err: fieldStorage.ErrFieldNotFound},
		&fakeBookingRepo{},
		&fakePricing{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{FieldID: 10, Date: "2025-06-01"})
	assert.ErrorIs(t, err, ErrFieldNotFound)

	uc = NewUseCase(
		&fakeFieldRepo{field: &domain.Field{ID: 10, Active: false}},
		&fakeBookingRepo{},
		&fakePricing{},
		nopLogger{},
	)

	_, err = uc.Execute(context.Background(), &Request{FieldID: 10, Date: "2025-06-01"})
	assert.ErrorIs(t, err, ErrFieldInactive)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newFixture()

	_, err := uc.Execute(context.Background(), &Request{FieldID: 0, Date: "2025-06-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{FieldID: 10, Date: "01.06.2025"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
