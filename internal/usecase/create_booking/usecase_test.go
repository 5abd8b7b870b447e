package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futbook/FieldBookingService/internal/domain"
	storage "github.com/futbook/FieldBookingService/internal/infra/storage/booking"
	"github.com/futbook/FieldBookingService/internal/service/pricing"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// errTxAborted имитирует ответ postgres на любую команду после неудачного
// стейтмента в той же транзакции (SQLSTATE 25P02)
var errTxAborted = errors.New("pq: current transaction is aborted, commands ignored until end of transaction block")

type fakeBookingRepo struct {
	existing  []*domain.Booking
	tombstone *domain.Booking

	createErr error
	nextID    int64

	// Как настоящая транзакция: после неудачного INSERT все последующие
	// команды отвергаются
	aborted bool

	createCalls  int
	createdWith  *domain.Booking
	reviveCalls  int
	revivedWith  struct {
		id            int64
		userID        int64
		totalAmount   int64
		paymentMethod string
	}
	cleanupCalls  int
	cleanupCutoff time.Time
	cleanupErr    error
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.createCalls++
	f.createdWith = booking
	if f.aborted {
		return nil, errTxAborted
	}
	if f.createErr != nil {
		f.aborted = true
		return nil, f.createErr
	}
	created := *booking
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	return &created, nil
}

func (f *fakeBookingRepo) GetByFieldAndDate(_ context.Context, filter domain.FieldDayFilter) ([]*domain.Booking, error) {
	if f.aborted {
		return nil, errTxAborted
	}
	var result []*domain.Booking
	for _, b := range f.existing {
		if b.FieldID == filter.FieldID && (filter.IncludeCancelled || !b.IsCancelled()) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) GetLatestCancelledAtSlot(_ context.Context, _ int64, _ time.Time, _, _ types.TimeString) (*domain.Booking, error) {
	if f.aborted {
		return nil, errTxAborted
	}
	if f.tombstone == nil {
		return nil, storage.ErrBookingNotFound
	}
	return f.tombstone, nil
}

func (f *fakeBookingRepo) Revive(_ context.Context, id int64, userID int64, totalAmount int64, paymentMethod string, notes *string) (*domain.Booking, error) {
	f.reviveCalls++
	f.revivedWith.id = id
	f.revivedWith.userID = userID
	f.revivedWith.totalAmount = totalAmount
	f.revivedWith.paymentMethod = paymentMethod

	if f.aborted {
		return nil, errTxAborted
	}
	if f.tombstone == nil {
		return nil, storage.ErrBookingNotFound
	}

	reborn := *f.tombstone
	reborn.UserID = userID
	reborn.TotalAmount = totalAmount
	reborn.PaymentMethod = paymentMethod
	reborn.Notes = notes
	reborn.Status = domain.StatusPending
	reborn.PaymentStatus = domain.PaymentPending
	return &reborn, nil
}

func (f *fakeBookingRepo) DeleteCancelledAtSlotBefore(_ context.Context, _ int64, _ time.Time, _, _ types.TimeString, cutoff time.Time) (int64, error) {
	f.cleanupCalls++
	f.cleanupCutoff = cutoff
	if f.cleanupErr != nil {
		return 0, f.cleanupErr
	}
	return 0, nil
}

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

type fakePricing struct {
	quote *pricing.Quote
	err   error
}

func (f *fakePricing) PriceRange(_ context.Context, _ domain.FieldType, _, _ types.TimeString, mode domain.RoundingMode) (*pricing.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	q := *f.quote
	q.Mode = mode
	return &q, nil
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc        *UseCase
	bookings  *fakeBookingRepo
	fields    *fakeFieldRepo
	txManager *fakeTxManager
	now       time.Time
}

func newFixture() *fixture {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bookings := &fakeBookingRepo{nextID: 42}
	fields := &fakeFieldRepo{field: &domain.Field{
		ID:     10,
		Name:   "Арена Север",
		Type:   domain.FieldType5v5,
		Active: true,
	}}
	tx := &fakeTxManager{}

	uc := NewUseCase(
		bookings,
		fields,
		&fakePricing{quote: &pricing.Quote{Amount: 300000}},
		tx,
		&fixedTime{now: now},
		nopLogger{},
		0,
	)

	return &fixture{uc: uc, bookings: bookings, fields: fields, txManager: tx, now: now}
}

func validRequest() *Request {
	return &Request{
		FieldID:       10,
		UserID:        100,
		BookingDate:   "2025-06-02",
		StartTime:     "18:00",
		EndTime:       "19:30",
		PaymentMethod: "card",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.Booking.ID)
	assert.Equal(t, int64(300000), resp.Booking.TotalAmount)
	assert.Equal(t, string(domain.StatusPending), resp.Booking.Status)
	assert.False(t, resp.Revived)
	assert.False(t, resp.PriceIsEstimate)

	assert.Equal(t, 1, f.txManager.calls)
	assert.Equal(t, 1, f.bookings.createCalls)
	assert.Equal(t, 0, f.bookings.reviveCalls)
}

func TestExecute_AdminEntryStartsApproved(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.AdminEntry = true

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Booking.Status)
	assert.Equal(t, domain.StatusApproved, f.bookings.createdWith.Status)
}

func TestExecute_ValidationLeavesNoTraces(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{
			name:    "start equals end",
			mutate:  func(r *Request) { r.EndTime = r.StartTime },
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "start after end",
			mutate:  func(r *Request) { r.StartTime = "20:00"; r.EndTime = "19:00" },
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "too short",
			mutate:  func(r *Request) { r.EndTime = "18:15" },
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "too long",
			mutate:  func(r *Request) { r.EndTime = "21:30" },
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "bad time format",
			mutate:  func(r *Request) { r.StartTime = "6pm" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad date format",
			mutate:  func(r *Request) { r.BookingDate = "02.06.2025" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing payment method",
			mutate:  func(r *Request) { r.PaymentMethod = "" },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)

			// Отказ валидации не оставляет следов в хранилище
			assert.Equal(t, 0, f.bookings.createCalls)
			assert.Equal(t, 0, f.bookings.cleanupCalls)
			assert.Equal(t, 0, f.txManager.calls)
		})
	}
}

func TestExecute_SlotConflict(t *testing.T) {
	f := newFixture()
	f.bookings.existing = []*domain.Booking{{
		ID:        1,
		FieldID:   10,
		StartTime: "18:30",
		EndTime:   "19:00",
		Status:    domain.StatusApproved,
	}}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Equal(t, 0, f.bookings.createCalls)
}

func TestExecute_CancelledDoesNotConflict(t *testing.T) {
	// Отменённая запись пересекается со слотом, но не совпадает с ним:
	// бронирование вставляется заново, без возрождения
	f := newFixture()
	f.bookings.existing = []*domain.Booking{{
		ID:        1,
		FieldID:   10,
		StartTime: "17:00",
		EndTime:   "18:30",
		Status:    domain.StatusCancelled,
	}}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, resp.Revived)
	assert.Equal(t, 1, f.bookings.createCalls)
}

func TestExecute_ReviveOnCancelledSlot(t *testing.T) {
	// Отменённая запись ровно этого слота возрождается без попытки INSERT.
	// Вставка первой сломала бы транзакцию: уникальный индекс перевёл бы её
	// в aborted-состояние, и фейк отвергает любые команды после неудачного
	// Create - как настоящий postgres
	f := newFixture()
	notes := "старое примечание"
	f.bookings.createErr = storage.ErrDuplicateSlot
	f.bookings.tombstone = &domain.Booking{
		ID:          7,
		FieldID:     10,
		UserID:      555,
		BookingDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:00",
		EndTime:     "19:30",
		Status:      domain.StatusCancelled,
		Notes:       &notes,
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, resp.Revived)
	assert.Equal(t, int64(7), resp.Booking.ID, "revive keeps the original row id")
	assert.Equal(t, int64(100), resp.Booking.UserID, "revive rebinds the row to the new requester")
	assert.Equal(t, string(domain.StatusPending), resp.Booking.Status)

	assert.Equal(t, 0, f.bookings.createCalls, "insert must not run when a cancelled row holds the slot")
	assert.Equal(t, 1, f.bookings.reviveCalls)
	assert.Equal(t, int64(7), f.bookings.revivedWith.id)
	assert.Equal(t, int64(300000), f.bookings.revivedWith.totalAmount)
	assert.Equal(t, "card", f.bookings.revivedWith.paymentMethod)
}

func TestExecute_RepeatedCancelAndRebookKeepsRowID(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.False(t, resp.Revived)
	originalID := resp.Booking.ID

	// Несколько циклов отмена-перебронирование: слот каждый раз достаётся
	// той же строке, новых вставок нет
	for cycle := 1; cycle <= 3; cycle++ {
		f.bookings.tombstone = &domain.Booking{
			ID:          originalID,
			FieldID:     10,
			UserID:      resp.Booking.UserID,
			BookingDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			StartTime:   "18:00",
			EndTime:     "19:30",
			Status:      domain.StatusCancelled,
		}

		req := validRequest()
		req.UserID = 100 + int64(cycle)

		resp, err = f.uc.Execute(context.Background(), req)
		require.NoError(t, err, "cycle %d", cycle)

		assert.True(t, resp.Revived, "cycle %d", cycle)
		assert.Equal(t, originalID, resp.Booking.ID, "cycle %d: rebooking reuses the cancelled row", cycle)
		assert.Equal(t, req.UserID, resp.Booking.UserID, "cycle %d", cycle)
		assert.Equal(t, string(domain.StatusPending), resp.Booking.Status, "cycle %d", cycle)
	}

	assert.Equal(t, 1, f.bookings.createCalls, "only the very first reservation inserts a row")
	assert.Equal(t, 3, f.bookings.reviveCalls)
}

func TestExecute_DuplicateWithoutTombstoneIsConflict(t *testing.T) {
	// Уникальный индекс сработал, но отменённой записи нет: слот занял
	// конкурентный запрос между нашей проверкой и вставкой
	f := newFixture()
	f.bookings.createErr = storage.ErrDuplicateSlot
	f.bookings.tombstone = nil

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Equal(t, 1, f.bookings.createCalls)
	assert.Equal(t, 0, f.bookings.reviveCalls)
}

func TestExecute_CleanupUsesGracePeriod(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, f.bookings.cleanupCalls)
	assert.Equal(t, f.now.Add(-domain.CancellationGracePeriod), f.bookings.cleanupCutoff)
}

func TestExecute_CleanupFailureDoesNotBlockBooking(t *testing.T) {
	f := newFixture()
	f.bookings.cleanupErr = errors.New("deadlock detected")

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotNil(t, resp.Booking)
}

func TestExecute_FieldChecks(t *testing.T) {
	f := newFixture()
	f.fields.err = errors.New("boom")

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)

	f = newFixture()
	f.fields.field.Active = false

	_, err = f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrFieldInactive)
}

func TestExecute_EstimateFlagPropagates(t *testing.T) {
	f := newFixture()
	now := f.now

	uc := NewUseCase(
		f.bookings,
		f.fields,
		&fakePricing{quote: &pricing.Quote{Amount: 200000, FallbackUsed: true}},
		f.txManager,
		&fixedTime{now: now},
		nopLogger{},
		0,
	)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.PriceIsEstimate)
	assert.Equal(t, int64(200000), resp.Booking.TotalAmount)
}
