package get_available_fields

import (
	"context"
	"fmt"
	"time"

	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// UseCase подбор полей, свободных в запрошенный диапазон: активные поля
// прогоняются через детектор конфликтов, выжившие аннотируются ценой
type UseCase struct {
	fieldRepo FieldRepository
	conflicts ConflictChecker
	pricing   PricingService
	logger    Logger
}

// NewUseCase создает новый экземпляр usecase поиска свободных полей
func NewUseCase(
	fieldRepo FieldRepository,
	conflicts ConflictChecker,
	pricing PricingService,
	logger Logger,
) *UseCase {
	return &UseCase{
		fieldRepo: fieldRepo,
		conflicts: conflicts,
		pricing:   pricing,
		logger:    logger,
	}
}

// Execute возвращает активные поля запрошенных типов, у которых диапазон
// [startTime, endTime) не пересекается ни с одним активным бронированием
// на дату. Каждое поле аннотируется одним слотом - запрошенным диапазоном
// с его стоимостью в режиме RoundTotal (та же сумма, что будет
// зафиксирована при бронировании этого диапазона).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	date, startTime, endTime, err := uc.parseRequest(req)
	if err != nil {
		return nil, err
	}

	fieldTypes := make([]domain.FieldType, 0, len(req.FieldTypes))
	for _, ft := range req.FieldTypes {
		fieldTypes = append(fieldTypes, domain.FieldType(ft))
	}

	fields, err := uc.fieldRepo.ListActiveByTypes(ctx, fieldTypes)
	if err != nil {
		uc.logger.Error("Execute: field repository error: %v", err)
		return nil, fmt.Errorf("%w: Execute - list fields: %v", ErrInternal, err)
	}

	available := make([]domain.AvailableField, 0, len(fields))
	for _, field := range fields {
		busy, err := uc.conflicts.HasConflict(ctx, field.ID, date, startTime, endTime, nil)
		if err != nil {
			uc.logger.Error("Execute: conflict check failed for field=%d: %v", field.ID, err)
			return nil, fmt.Errorf("%w: Execute - conflict check: %v", ErrInternal, err)
		}
		if busy {
			continue
		}

		quote, err := uc.pricing.PriceRange(ctx, field.Type, startTime, endTime, domain.RoundTotal)
		if err != nil {
			uc.logger.Error("Execute: pricing failed for field=%d: %v", field.ID, err)
			return nil, fmt.Errorf("%w: Execute - pricing: %v", ErrInternal, err)
		}

		available = append(available, domain.AvailableField{
			Field: *field,
			Slots: []domain.PricedSlot{{
				StartTime:       startTime,
				EndTime:         endTime,
				Price:           quote.Amount,
				PriceIsEstimate: quote.FallbackUsed,
			}},
		})
	}

	uc.logger.Info("Execute: %d of %d fields available for %s %s-%s",
		len(available), len(fields), req.Date, startTime, endTime)

	return fromDomainAvailableFields(req.Date, available), nil
}

func (uc *UseCase) parseRequest(req *Request) (time.Time, types.TimeString, types.TimeString, error) {
	var zero types.TimeString

	if req == nil {
		return time.Time{}, zero, zero, fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return time.Time{}, zero, zero, fmt.Errorf("%w: date must be in format %s", ErrInvalidInput, domain.DateFormat)
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return time.Time{}, zero, zero, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	endTime, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return time.Time{}, zero, zero, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}

	if !startTime.IsBefore(endTime) {
		return time.Time{}, zero, zero, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, startTime, endTime)
	}

	return date, startTime, endTime, nil
}
