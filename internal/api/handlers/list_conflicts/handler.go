package list_conflicts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/futbook/FieldBookingService/internal/api/handlers"
	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/internal/service/bookings"
	"github.com/futbook/FieldBookingService/internal/service/bookings/models"
	"github.com/futbook/FieldBookingService/pkg/types"
)

const (
	msgInvalidFieldID   = "некорректный ID поля"
	msgInvalidInput     = "некорректные параметры запроса"
	msgInvalidTimeRange = "время начала должно быть раньше времени окончания"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/fields/{fieldId}/conflicts?date=2025-06-01&startTime=18:00&endTime=19:30&excludeBookingId=42
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fieldID, err := strconv.ParseInt(vars["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /fields/{id}/conflicts - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /fields/{id}/conflicts - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	startTime, err := types.NewTimeStringFromString(query.Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /fields/{id}/conflicts - Invalid startTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}
	endTime, err := types.NewTimeStringFromString(query.Get("endTime"))
	if err != nil {
		h.logger.Warn("GET /fields/{id}/conflicts - Invalid endTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	var excludeBookingID *int64
	if raw := query.Get("excludeBookingId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /fields/{id}/conflicts - Invalid excludeBookingId: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		excludeBookingID = &id
	}

	conflicts, err := h.service.ListConflicts(r.Context(), fieldID, date, startTime, endTime, excludeBookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidTimeRange):
			h.logger.Warn("GET /fields/{id}/conflicts - Invalid time range: %s-%s", startTime, endTime)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		default:
			h.logger.Error("GET /fields/{id}/conflicts - Failed to list conflicts: field_id=%d, error=%v",
				fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /fields/{id}/conflicts - %d conflicts: field_id=%d, slot=%s-%s",
		len(conflicts), fieldID, startTime, endTime)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBookingList(conflicts))
}
