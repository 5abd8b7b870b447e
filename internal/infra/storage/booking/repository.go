package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/pkg/dbmetrics"
	"github.com/futbook/FieldBookingService/pkg/psqlbuilder"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// pgUniqueViolation - SQLSTATE нарушения уникальности
const pgUniqueViolation = "23505"

// slotUniqueConstraint - имя уникального индекса на (field_id, booking_date,
// start_time, end_time); попадание в него означает, что ровно этот слот уже
// занят строкой (возможно, отменённой)
const slotUniqueConstraint = "uq_bookings_slot"

var bookingColumns = []string{
	"id",
	"field_id",
	"user_id",
	"booking_date",
	"start_time",
	"end_time",
	"total_amount",
	"status",
	"payment_status",
	"payment_method",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями полей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
//
// При нарушении уникальности слота (field_id, booking_date, start_time,
// end_time) возвращает ErrDuplicateSlot - вызывающий код должен попытаться
// оживить (revive) последнюю отменённую строку на этом слоте вместо вставки.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"field_id",
			"user_id",
			"booking_date",
			"start_time",
			"end_time",
			"total_amount",
			"status",
			"payment_status",
			"payment_method",
			"notes",
		).
		Values(
			booking.FieldID,
			booking.UserID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.TotalAmount,
			booking.Status,
			booking.PaymentStatus,
			booking.PaymentMethod,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isSlotUniqueViolation(err) {
			return nil, ErrDuplicateSlot
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByFieldAndDate получает бронирования поля на конкретную дату
// По умолчанию отменённые (tombstone) строки не возвращаются.
//
// Внутри транзакции выборка блокирует строки (FOR UPDATE) - так проверка
// конфликтов и вставка образуют одну атомарную операцию.
func (r *Repository) GetByFieldAndDate(ctx context.Context, filter domain.FieldDayFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"field_id": filter.FieldID}).
		Where(squirrel.Eq{"booking_date": filter.Date})

	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	if filter.ExcludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeBookingID})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFieldAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFieldAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetLatestCancelledAtSlot находит самую свежую отменённую строку на ровно
// этом слоте (field_id, booking_date, start_time, end_time)
// Вызывается перед вставкой: найденная строка оживляется (revive) вместо
// INSERT, чтобы не упереться в уникальный индекс слота.
//
// Внутри транзакции строка блокируется (FOR UPDATE) - конкурентный revive
// той же строки ждёт завершения транзакции.
func (r *Repository) GetLatestCancelledAtSlot(
	ctx context.Context,
	fieldID int64,
	date time.Time,
	startTime, endTime types.TimeString,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"field_id":     fieldID,
			"booking_date": date,
			"start_time":   startTime,
			"end_time":     endTime,
			"status":       string(domain.StatusCancelled),
		}).
		OrderBy("created_at DESC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestCancelledAtSlot - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: GetLatestCancelledAtSlot - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// Revive оживляет отменённое бронирование на месте: перезаписывает
// пользователя, сумму и платёжные поля, сбрасывает статус в pending и
// обновляет временные метки. Строка сохраняет свой id.
func (r *Repository) Revive(
	ctx context.Context,
	id int64,
	userID int64,
	totalAmount int64,
	paymentMethod string,
	notes *string,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("user_id", userID).
		Set("total_amount", totalAmount).
		Set("payment_method", paymentMethod).
		Set("payment_status", string(domain.PaymentPending)).
		Set("status", string(domain.StatusPending)).
		Set("notes", notes).
		Set("created_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": string(domain.StatusCancelled),
		}).
		Suffix("RETURNING " + joinColumns(bookingColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Revive - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: Revive - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// DeleteCancelledAtSlotBefore удаляет отменённые строки на ровно этом слоте,
// созданные раньше cutoff (грейс-период). Возвращает число удалённых строк.
// Вызывается лениво перед вставкой нового бронирования, не по расписанию.
func (r *Repository) DeleteCancelledAtSlotBefore(
	ctx context.Context,
	fieldID int64,
	date time.Time,
	startTime, endTime types.TimeString,
	cutoff time.Time,
) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{
			"field_id":     fieldID,
			"booking_date": date,
			"start_time":   startTime,
			"end_time":     endTime,
			"status":       string(domain.StatusCancelled),
		}).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteCancelledAtSlotBefore - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteCancelledAtSlotBefore - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteCancelledAtSlotBefore - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// UpdateStatus обновляет статус бронирования; notes, если указаны,
// перезаписываются вместе со статусом
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if notes != nil {
		updateBuilder = updateBuilder.Set("notes", *notes)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdatePaymentStatus обновляет платёжный статус бронирования
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в модель бронирования
func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.FieldID,
		&booking.UserID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.TotalAmount,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.PaymentMethod,
		&booking.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// isSlotUniqueViolation проверяет, что ошибка - нарушение уникального
// индекса слота
func isSlotUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && pqErr.Constraint == slotUniqueConstraint
	}
	return false
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
