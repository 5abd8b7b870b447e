package get_day_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futbook/FieldBookingService/internal/domain"
	fieldStorage "github.com/futbook/FieldBookingService/internal/infra/storage/field"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// UseCase сетка дня: перечисление свободных 30-минутных ячеек поля в
// рабочем окне с ценой каждой ячейки
type UseCase struct {
	fieldRepo   FieldRepository
	bookingRepo BookingRepository
	pricing     PricingService
	logger      Logger
}

// NewUseCase создает новый экземпляр usecase сетки дня
func NewUseCase(
	fieldRepo FieldRepository,
	bookingRepo BookingRepository,
	pricing PricingService,
	logger Logger,
) *UseCase {
	return &UseCase{
		fieldRepo:   fieldRepo,
		bookingRepo: bookingRepo,
		pricing:     pricing,
		logger:      logger,
	}
}

// Execute перечисляет свободные 30-минутные ячейки поля на дату в рабочем
// окне [06:00, 22:00). Ячейка исключается, если пересекается хотя бы с
// одним активным бронированием. Каждая ячейка тарифицируется отдельно в
// режиме RoundPerBlock - половина почасовой ставки часа её начала.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.FieldID <= 0 {
		return nil, fmt.Errorf("%w: fieldId must be positive", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be in format %s", ErrInvalidInput, domain.DateFormat)
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
		return nil, ErrFieldInactive
	}

	bookings, err := uc.bookingRepo.GetByFieldAndDate(ctx, domain.FieldDayFilter{
		FieldID: req.FieldID,
		Date:    date,
	})
	if err != nil {
		uc.logger.Error("Execute: booking repository error for field=%d: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: Execute - list bookings: %v", ErrInternal, err)
	}

	slots, err := uc.enumerateFreeSlots(ctx, field, bookings)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Execute: field=%d date=%s has %d free slots", req.FieldID, req.Date, len(slots))
	return fromDomainSlots(field, req.Date, slots), nil
}

// enumerateFreeSlots шагает по рабочему окну 30-минутными ячейками,
// пропуская занятые активными бронированиями
func (uc *UseCase) enumerateFreeSlots(
	ctx context.Context,
	field *domain.Field,
	bookings []*domain.Booking,
) ([]domain.PricedSlot, error) {
	slots := make([]domain.PricedSlot, 0)

	cursor := domain.OperatingDayStart
	for cursor.IsBefore(domain.OperatingDayEnd) {
		cellEnd, err := cursor.AddMinutes(domain.BillingBlockMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: enumerateFreeSlots - advance cursor: %v", ErrInternal, err)
		}

		if !uc.cellTaken(bookings, cursor, cellEnd) {
			quote, err := uc.pricing.PriceRange(ctx, field.Type, cursor, cellEnd, domain.RoundPerBlock)
			if err != nil {
				uc.logger.Error("enumerateFreeSlots: pricing failed for field=%d cell=%s: %v", field.ID, cursor, err)
				return nil, fmt.Errorf("%w: enumerateFreeSlots - pricing: %v", ErrInternal, err)
			}

			slots = append(slots, domain.PricedSlot{
				StartTime:       cursor,
				EndTime:         cellEnd,
				Price:           quote.Amount,
				PriceIsEstimate: quote.FallbackUsed,
			})
		}

		cursor = cellEnd
	}

	return slots, nil
}

func (uc *UseCase) cellTaken(bookings []*domain.Booking, start, end types.TimeString) bool {
	for _, b := range bookings {
		if b.IsActive() && b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
