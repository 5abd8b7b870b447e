package quote_price

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/futbook/FieldBookingService/internal/api/handlers"
	"github.com/futbook/FieldBookingService/internal/domain"
	fieldStorage "github.com/futbook/FieldBookingService/internal/infra/storage/field"
	"github.com/futbook/FieldBookingService/internal/service/pricing"
	"github.com/futbook/FieldBookingService/pkg/types"
)

const (
	msgInvalidFieldID   = "некорректный ID поля"
	msgInvalidInput     = "некорректные параметры запроса"
	msgInvalidTimeRange = "время начала должно быть раньше времени окончания"
	msgFieldNotFound    = "поле не найдено"
)

// QuoteResponse HTTP response model
type QuoteResponse struct {
	FieldID         int64  `json:"fieldId"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Amount          int64  `json:"amount"`
	RoundingMode    string `json:"roundingMode"`
	PriceIsEstimate bool   `json:"priceIsEstimate,omitempty"`
}

type Handler struct {
	fieldRepo FieldRepository
	pricing   PricingService
	logger    Logger
}

func NewHandler(fieldRepo FieldRepository, pricing PricingService, logger Logger) *Handler {
	return &Handler{
		fieldRepo: fieldRepo,
		pricing:   pricing,
		logger:    logger,
	}
}

// Handle GET /api/v1/fields/{fieldId}/quote?startTime=18:00&endTime=19:30&mode=total
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fieldID, err := strconv.ParseInt(vars["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /fields/{id}/quote - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	query := r.URL.Query()

	startTime, err := types.NewTimeStringFromString(query.Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /fields/{id}/quote - Invalid startTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}
	endTime, err := types.NewTimeStringFromString(query.Get("endTime"))
	if err != nil {
		h.logger.Warn("GET /fields/{id}/quote - Invalid endTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	mode := domain.RoundTotal
	switch query.Get("mode") {
	case "", string(domain.RoundTotal):
	case string(domain.RoundPerBlock):
		mode = domain.RoundPerBlock
	default:
		h.logger.Warn("GET /fields/{id}/quote - Invalid mode: %s", query.Get("mode"))
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	field, err := h.fieldRepo.GetByID(r.Context(), fieldID)
	if err != nil {
		if errors.Is(err, fieldStorage.ErrFieldNotFound) {
			h.logger.Warn("GET /fields/{id}/quote - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)
			return
		}
		h.logger.Error("GET /fields/{id}/quote - Failed to get field: field_id=%d, error=%v", fieldID, err)
		handlers.RespondInternalError(w)
		return
	}

	quote, err := h.pricing.PriceRange(r.Context(), field.Type, startTime, endTime, mode)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidRange), errors.Is(err, pricing.ErrInvalidTime):
			h.logger.Warn("GET /fields/{id}/quote - Invalid range: field_id=%d, slot=%s-%s",
				fieldID, startTime, endTime)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		default:
			h.logger.Error("GET /fields/{id}/quote - Failed to price range: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /fields/{id}/quote - Quote computed: field_id=%d, slot=%s-%s, amount=%d, mode=%s",
		fieldID, startTime, endTime, quote.Amount, quote.Mode)
	handlers.RespondJSON(w, http.StatusOK, &QuoteResponse{
		FieldID:         fieldID,
		StartTime:       startTime.String(),
		EndTime:         endTime.String(),
		Amount:          quote.Amount,
		RoundingMode:    string(quote.Mode),
		PriceIsEstimate: quote.FallbackUsed,
	})
}
