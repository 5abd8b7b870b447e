package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futbook/FieldBookingService/internal/domain"
	bookingRepo "github.com/futbook/FieldBookingService/internal/infra/storage/booking"
	"github.com/futbook/FieldBookingService/internal/service/bookings/models"
	"github.com/futbook/FieldBookingService/pkg/types"
)

// Service сервис жизненного цикла бронирований: детектор конфликтов и
// переходы статусов
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// HasConflict проверяет, пересекается ли [startTime, endTime) хотя бы с
// одним активным бронированием поля на дату.
// Интервалы A=[s1,e1) и B=[s2,e2) конфликтуют тогда и только тогда, когда
// s1 < e2 && s2 < e1; касание границами конфликтом не считается.
// excludeBookingID, если задан, пропускается (проверка бронирования против
// самого себя при обновлении).
func (s *Service) HasConflict(
	ctx context.Context,
	fieldID int64,
	date time.Time,
	startTime, endTime types.TimeString,
	excludeBookingID *int64,
) (bool, error) {
	conflicts, err := s.ListConflicts(ctx, fieldID, date, startTime, endTime, excludeBookingID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// ListConflicts возвращает все активные бронирования поля на дату,
// пересекающиеся с [startTime, endTime) - тот же предикат, что и
// HasConflict, но со списком совпадений для UI
func (s *Service) ListConflicts(
	ctx context.Context,
	fieldID int64,
	date time.Time,
	startTime, endTime types.TimeString,
	excludeBookingID *int64,
) ([]*domain.Booking, error) {
	if !startTime.IsBefore(endTime) {
		return nil, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, startTime, endTime)
	}

	filter := domain.FieldDayFilter{
		FieldID:          fieldID,
		Date:             date,
		IncludeCancelled: false, // Отменённые - tombstone, конфликтовать не могут
		ExcludeBookingID: excludeBookingID,
	}

	existing, err := s.bookingRepo.GetByFieldAndDate(ctx, filter)
	if err != nil {
		s.logger.Error("ListConflicts: repository error for field=%d: %v", fieldID, err)
		return nil, fmt.Errorf("%w: ListConflicts - repository error: %v", ErrInternal, err)
	}

	conflicts := make([]*domain.Booking, 0)
	for _, b := range existing {
		if !b.IsActive() {
			continue
		}
		if b.Overlaps(startTime, endTime) {
			conflicts = append(conflicts, b)
		}
	}

	return conflicts, nil
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование с указанием причины
// Отмена возможна только из pending или approved
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	var notes *string
	if req.Reason != "" {
		notes = &req.Reason
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusCancelled, notes); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus переводит бронирование в новый статус с проверкой
// допустимости перехода: pending -> approved -> completed,
// pending|approved -> cancelled. Перевод - простое обновление
// статуса и заметок, без побочных эффектов на другие бронирования.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", bookingID, req.Status)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !booking.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking id=%d",
			booking.Status, newStatus, bookingID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus, req.Notes); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// UpdatePaymentStatus обновляет платёжный статус бронирования
func (s *Service) UpdatePaymentStatus(ctx context.Context, bookingID int64, status string) error {
	paymentStatus, err := models.ToDomainPaymentStatus(status)
	if err != nil {
		s.logger.Warn("UpdatePaymentStatus: invalid payment status=%s for booking id=%d", status, bookingID)
		return fmt.Errorf("%w: invalid payment status", ErrInvalidInput)
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, paymentStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	return nil
}
