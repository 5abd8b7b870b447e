package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futbook/FieldBookingService/internal/domain"
	storage "github.com/futbook/FieldBookingService/internal/infra/storage/booking"
	fieldStorage "github.com/futbook/FieldBookingService/internal/infra/storage/field"
	"github.com/futbook/FieldBookingService/internal/service/bookings/models"
)

// UseCase создание бронирования: валидация, зачистка протухших отменённых
// записей слота, проверка конфликтов, расчёт стоимости и вставка либо
// возрождение отменённой записи того же слота
type UseCase struct {
	bookingRepo BookingRepository
	fieldRepo   FieldRepository
	pricing     PricingService
	txManager   TransactionManager
	timeProv    TimeProvider
	logger      Logger

	gracePeriod time.Duration
}

// NewUseCase создает новый экземпляр usecase создания бронирования.
// gracePeriod - минимальный возраст отменённой записи для физического
// удаления; 0 - значение по умолчанию (domain.CancellationGracePeriod).
func NewUseCase(
	bookingRepo BookingRepository,
	fieldRepo FieldRepository,
	pricing PricingService,
	txManager TransactionManager,
	timeProv TimeProvider,
	logger Logger,
	gracePeriod time.Duration,
) *UseCase {
	if gracePeriod <= 0 {
		gracePeriod = domain.CancellationGracePeriod
	}

	return &UseCase{
		bookingRepo: bookingRepo,
		fieldRepo:   fieldRepo,
		pricing:     pricing,
		txManager:   txManager,
		timeProv:    timeProv,
		logger:      logger,
		gracePeriod: gracePeriod,
	}
}

// Execute создает бронирование слота.
//
// Проверка конфликтов, поиск отменённой записи слота и вставка выполняются в
// одной serializable-транзакции: чтение активных бронирований дня блокирует
// строки (FOR UPDATE), поэтому два конкурентных запроса на пересекающиеся
// слоты не могут пройти проверку одновременно. Отменённая запись ровно этого
// слота ищется до вставки и возрождается с данными нового запроса - иначе
// INSERT упёрся бы в уникальный индекс и перевёл транзакцию в aborted-состояние
// (SQLSTATE 25P02), после чего revive в той же транзакции невозможен.
// Уникальный индекс по (field_id, booking_date, start_time, end_time) остаётся
// страховкой от конкурентной вставки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	parsed, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	field, err := uc.fieldRepo.GetByID(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, fieldStorage.ErrFieldNotFound) {
			uc.logger.Warn("Execute: field id=%d not found", req.FieldID)
			return nil, ErrFieldNotFound
		}
		uc.logger.Error("Execute: field repository error for id=%d: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: Execute - field lookup: %v", ErrInternal, err)
	}
	if !field.Active {
		uc.logger.Warn("Execute: field id=%d is not active", req.FieldID)
		return nil, ErrFieldInactive
	}

	uc.cleanupStaleCancelled(ctx, req.FieldID, parsed)

	quote, err := uc.pricing.PriceRange(ctx, field.Type, parsed.startTime, parsed.endTime, domain.RoundTotal)
	if err != nil {
		uc.logger.Error("Execute: pricing error for field=%d slot=%s-%s: %v",
			req.FieldID, parsed.startTime, parsed.endTime, err)
		return nil, fmt.Errorf("%w: Execute - pricing: %v", ErrInternal, err)
	}

	var (
		result  *domain.Booking
		revived bool
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		filter := domain.FieldDayFilter{
			FieldID:          req.FieldID,
			Date:             parsed.date,
			IncludeCancelled: false,
		}

		existing, err := uc.bookingRepo.GetByFieldAndDate(txCtx, filter)
		if err != nil {
			return fmt.Errorf("conflict check: %w", err)
		}
		for _, b := range existing {
			if b.IsActive() && b.Overlaps(parsed.startTime, parsed.endTime) {
				return ErrSlotConflict
			}
		}

		// Отменённую запись ровно этого слота нужно найти до INSERT:
		// неудачная вставка перевела бы транзакцию в aborted-состояние,
		// и возрождение в ней стало бы невозможным.
		tombstone, err := uc.bookingRepo.GetLatestCancelledAtSlot(
			txCtx, req.FieldID, parsed.date, parsed.startTime, parsed.endTime)
		if err != nil && !errors.Is(err, storage.ErrBookingNotFound) {
			return fmt.Errorf("revive lookup: %w", err)
		}
		if tombstone != nil {
			reborn, err := uc.bookingRepo.Revive(
				txCtx, tombstone.ID, req.UserID, quote.Amount, req.PaymentMethod, req.Notes)
			if err != nil {
				if errors.Is(err, storage.ErrBookingNotFound) {
					return ErrSlotConflict
				}
				return fmt.Errorf("revive: %w", err)
			}
			result = reborn
			revived = true
			return nil
		}

		booking := &domain.Booking{
			FieldID:       req.FieldID,
			UserID:        req.UserID,
			BookingDate:   parsed.date,
			StartTime:     parsed.startTime,
			EndTime:       parsed.endTime,
			TotalAmount:   quote.Amount,
			Status:        initialStatus(req.AdminEntry),
			PaymentStatus: domain.PaymentPending,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Конкурентная транзакция успела занять слот после нашей
			// проверки - уникальный индекс сработал как страховка.
			if errors.Is(err, storage.ErrDuplicateSlot) {
				return ErrSlotConflict
			}
			return fmt.Errorf("insert: %w", err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.logger.Warn("Execute: slot conflict for field=%d date=%s slot=%s-%s",
				req.FieldID, req.BookingDate, parsed.startTime, parsed.endTime)
			return nil, ErrSlotConflict
		}
		uc.logger.Error("Execute: transaction failed for field=%d: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: Execute - transaction: %v", ErrInternal, err)
	}

	result.PriceIsEstimate = quote.FallbackUsed

	uc.logger.Info("Execute: booking id=%d created for field=%d user=%d slot=%s-%s amount=%d revived=%t",
		result.ID, req.FieldID, req.UserID, parsed.startTime, parsed.endTime, quote.Amount, revived)

	return &Response{
		Booking:         models.FromDomainBooking(result),
		Revived:         revived,
		PriceIsEstimate: quote.FallbackUsed,
	}, nil
}

// cleanupStaleCancelled удаляет отменённые записи слота старше льготного
// периода. Зачистка - best effort: её сбой не блокирует создание
// бронирования, ошибка только логируется.
func (uc *UseCase) cleanupStaleCancelled(ctx context.Context, fieldID int64, parsed *parsedRequest) {
	cutoff := uc.timeProv.Now().Add(-uc.gracePeriod)

	deleted, err := uc.bookingRepo.DeleteCancelledAtSlotBefore(
		ctx, fieldID, parsed.date, parsed.startTime, parsed.endTime, cutoff)
	if err != nil {
		uc.logger.Warn("cleanupStaleCancelled: %v", err)
		return
	}
	if deleted > 0 {
		uc.logger.Info("cleanupStaleCancelled: removed %d stale cancelled bookings", deleted)
	}
}
