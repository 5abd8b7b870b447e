package get_day_slots

import "github.com/futbook/FieldBookingService/internal/domain"

// Request запрос сетки свободных слотов поля на день
type Request struct {
	FieldID int64  `json:"fieldId"`
	Date    string `json:"date"` // "2025-06-01"
}

// SlotResponse свободная 30-минутная ячейка с ценой
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Price           int64  `json:"price"`
	PriceIsEstimate bool   `json:"priceIsEstimate,omitempty"`
}

// Response сетка свободных слотов поля на день
type Response struct {
	FieldID   int64          `json:"fieldId"`
	FieldName string         `json:"fieldName"`
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
}

func fromDomainSlots(field *domain.Field, date string, slots []domain.PricedSlot) *Response {
	resp := &Response{
		FieldID:   field.ID,
		FieldName: field.Name,
		Date:      date,
		Slots:     make([]SlotResponse, 0, len(slots)),
	}

	for _, slot := range slots {
		resp.Slots = append(resp.Slots, SlotResponse{
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			Price:           slot.Price,
			PriceIsEstimate: slot.PriceIsEstimate,
		})
	}

	return resp
}
