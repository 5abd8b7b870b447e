package get_available_fields

import (
	"errors"
	"net/http"
	"strings"

	"github.com/futbook/FieldBookingService/internal/api/handlers"
	getAvailableFields "github.com/futbook/FieldBookingService/internal/usecase/get_available_fields"
)

const (
	msgInvalidInput     = "некорректные параметры запроса"
	msgInvalidTimeRange = "время начала должно быть раньше времени окончания"
)

type Handler struct {
	useCase GetAvailableFieldsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableFieldsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/fields/available?date=2025-06-01&startTime=18:00&endTime=19:30&types=5vs5,7vs7
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &getAvailableFields.Request{
		Date:      query.Get("date"),
		StartTime: query.Get("startTime"),
		EndTime:   query.Get("endTime"),
	}
	if types := query.Get("types"); types != "" {
		req.FieldTypes = strings.Split(types, ",")
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableFields.ErrInvalidTimeRange):
			h.logger.Warn("GET /fields/available - Invalid time range: %s-%s", req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, getAvailableFields.ErrInvalidInput):
			h.logger.Warn("GET /fields/available - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /fields/available - Failed to find fields: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /fields/available - Found %d fields for %s %s-%s",
		len(result.Fields), req.Date, req.StartTime, req.EndTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}
