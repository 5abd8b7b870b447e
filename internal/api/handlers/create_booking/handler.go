package create_booking

import (
	"errors"
	"net/http"

	"github.com/futbook/FieldBookingService/internal/api/handlers"
	"github.com/futbook/FieldBookingService/internal/api/middleware"
	createBooking "github.com/futbook/FieldBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные запроса"
	msgInvalidTimeRange   = "время начала должно быть раньше времени окончания"
	msgInvalidDuration    = "длительность бронирования должна быть от 30 минут до 3 часов"
	msgSlotConflict       = "слот пересекается с существующим бронированием"
	msgFieldNotFound      = "поле не найдено"
	msgFieldInactive      = "поле недоступно для бронирования"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: user_id=%d, field_id=%d, date=%s",
				userID, req.FieldID, req.BookingDate)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createBooking.ErrFieldNotFound):
			h.logger.Warn("POST /bookings - Field not found: field_id=%d", req.FieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, createBooking.ErrFieldInactive):
			h.logger.Warn("POST /bookings - Field inactive: field_id=%d", req.FieldID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgFieldInactive)

		case errors.Is(err, createBooking.ErrInvalidDuration):
			h.logger.Warn("POST /bookings - Invalid duration: user_id=%d, slot=%s-%s",
				userID, req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, createBooking.ErrInvalidTimeRange):
			h.logger.Warn("POST /bookings - Invalid time range: user_id=%d, slot=%s-%s",
				userID, req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, field_id=%d, error=%v",
				userID, req.FieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, field_id=%d, revived=%t",
		result.Booking.ID, userID, req.FieldID, result.Revived)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
