package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futbook/FieldBookingService/internal/domain"
	bookingRepo "github.com/futbook/FieldBookingService/internal/infra/storage/booking"
	"github.com/futbook/FieldBookingService/internal/service/bookings/models"
	"github.com/futbook/FieldBookingService/pkg/ptr"
	"github.com/futbook/FieldBookingService/pkg/types"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking

	updatedStatus  map[int64]domain.BookingStatus
	updatedNotes   map[int64]*string
	updatedPayment map[int64]domain.PaymentStatus
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{
		bookings:       make(map[int64]*domain.Booking),
		updatedStatus:  make(map[int64]domain.BookingStatus),
		updatedNotes:   make(map[int64]*string),
		updatedPayment: make(map[int64]domain.PaymentStatus),
	}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByFieldAndDate(_ context.Context, filter domain.FieldDayFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.FieldID != filter.FieldID {
			continue
		}
		if !filter.IncludeCancelled && b.IsCancelled() {
			continue
		}
		if filter.ExcludeBookingID != nil && b.ID == *filter.ExcludeBookingID {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus, notes *string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	f.updatedStatus[id] = status
	f.updatedNotes[id] = notes
	return nil
}

func (f *fakeBookingRepo) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	f.updatedPayment[id] = status
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testDate() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func slot(id, fieldID int64, start, end types.TimeString, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		FieldID:     fieldID,
		UserID:      100,
		BookingDate: testDate(),
		StartTime:   start,
		EndTime:     end,
		Status:      status,
	}
}

func TestHasConflict(t *testing.T) {
	repo := newFakeBookingRepo(
		slot(1, 10, "18:00", "19:00", domain.StatusApproved),
	)
	svc := NewService(repo, nopLogger{})

	busy, err := svc.HasConflict(context.Background(), 10, testDate(), "18:30", "19:30", nil)
	require.NoError(t, err)
	assert.True(t, busy)

	// Касание границ конфликтом не считается
	busy, err = svc.HasConflict(context.Background(), 10, testDate(), "19:00", "20:00", nil)
	require.NoError(t, err)
	assert.False(t, busy)

	// Другое поле не конфликтует
	busy, err = svc.HasConflict(context.Background(), 11, testDate(), "18:00", "19:00", nil)
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestHasConflict_CancelledIsTombstone(t *testing.T) {
	repo := newFakeBookingRepo(
		slot(1, 10, "18:00", "19:00", domain.StatusCancelled),
	)
	svc := NewService(repo, nopLogger{})

	busy, err := svc.HasConflict(context.Background(), 10, testDate(), "18:00", "19:00", nil)
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestHasConflict_ExcludesSelf(t *testing.T) {
	repo := newFakeBookingRepo(
		slot(1, 10, "18:00", "19:00", domain.StatusApproved),
	)
	svc := NewService(repo, nopLogger{})

	busy, err := svc.HasConflict(context.Background(), 10, testDate(), "18:00", "19:00", ptr.Ptr(int64(1)))
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestListConflicts(t *testing.T) {
	repo := newFakeBookingRepo(
		slot(1, 10, "08:00", "09:00", domain.StatusPending),
		slot(2, 10, "10:00", "11:00", domain.StatusApproved),
		slot(3, 10, "10:30", "11:30", domain.StatusCompleted),
		slot(4, 10, "10:00", "11:00", domain.StatusCancelled),
	)
	svc := NewService(repo, nopLogger{})

	conflicts, err := svc.ListConflicts(context.Background(), 10, testDate(), "10:00", "11:00", nil)
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	for _, c := range conflicts {
		assert.True(t, c.IsActive())
	}
}

func TestListConflicts_InvalidRange(t *testing.T) {
	svc := NewService(newFakeBookingRepo(), nopLogger{})

	_, err := svc.ListConflicts(context.Background(), 10, testDate(), "11:00", "10:00", nil)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.ListConflicts(context.Background(), 10, testDate(), "10:00", "10:00", nil)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestGetByID(t *testing.T) {
	repo := newFakeBookingRepo(slot(1, 10, "18:00", "19:00", domain.StatusPending))
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "18:00", resp.StartTime)

	_, err = svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel(t *testing.T) {
	repo := newFakeBookingRepo(slot(1, 10, "18:00", "19:00", domain.StatusApproved))
	svc := NewService(repo, nopLogger{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 100, Reason: "rain"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.updatedStatus[1])
	require.NotNil(t, repo.updatedNotes[1])
	assert.Equal(t, "rain", *repo.updatedNotes[1])
}

func TestCancel_InvalidStates(t *testing.T) {
	repo := newFakeBookingRepo(
		slot(1, 10, "18:00", "19:00", domain.StatusCompleted),
		slot(2, 10, "19:00", "20:00", domain.StatusCancelled),
	)
	svc := NewService(repo, nopLogger{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrCannotCancel)

	// Повторная отмена идемпотентной не является
	err = svc.Cancel(context.Background(), 2, &models.CancelBookingRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrCannotCancel)

	err = svc.Cancel(context.Background(), 99, &models.CancelBookingRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeBookingRepo(slot(1, 10, "18:00", "19:00", domain.StatusPending))
	svc := NewService(repo, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, repo.updatedStatus[1])

	err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, repo.updatedStatus[1])
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	repo := newFakeBookingRepo(slot(1, 10, "18:00", "19:00", domain.StatusPending))
	svc := NewService(repo, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "frozen"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetUserBookings(t *testing.T) {
	repo := newFakeBookingRepo(
		slot(1, 10, "18:00", "19:00", domain.StatusPending),
		slot(2, 11, "10:00", "11:00", domain.StatusCancelled),
	)
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 100})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 100,
		Status: ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "pending", resp.Bookings[0].Status)

	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 100,
		Status: ptr.Ptr("frozen"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
