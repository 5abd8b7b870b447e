package get_day_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/futbook/FieldBookingService/internal/api/handlers"
	getDaySlots "github.com/futbook/FieldBookingService/internal/usecase/get_day_slots"
)

const (
	msgInvalidFieldID = "некорректный ID поля"
	msgInvalidInput   = "некорректные параметры запроса"
	msgFieldNotFound  = "поле не найдено"
	msgFieldInactive  = "поле недоступно для бронирования"
)

type Handler struct {
	useCase GetDaySlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetDaySlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/fields/{fieldId}/day-slots?date=2025-06-01
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fieldID, err := strconv.ParseInt(vars["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /fields/{id}/day-slots - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	req := &getDaySlots.Request{
		FieldID: fieldID,
		Date:    r.URL.Query().Get("date"),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getDaySlots.ErrFieldNotFound):
			h.logger.Warn("GET /fields/{id}/day-slots - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, getDaySlots.ErrFieldInactive):
			h.logger.Warn("GET /fields/{id}/day-slots - Field inactive: field_id=%d", fieldID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgFieldInactive)

		case errors.Is(err, getDaySlots.ErrInvalidInput):
			h.logger.Warn("GET /fields/{id}/day-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /fields/{id}/day-slots - Failed to enumerate slots: field_id=%d, error=%v",
				fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /fields/{id}/day-slots - %d free slots: field_id=%d, date=%s",
		len(result.Slots), fieldID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
