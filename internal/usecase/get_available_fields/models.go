package get_available_fields

import (
	"github.com/futbook/FieldBookingService/internal/domain"
)

// Request запрос на подбор свободных полей под диапазон
type Request struct {
	Date       string   `json:"date"`      // "2025-06-01"
	StartTime  string   `json:"startTime"` // "18:00"
	EndTime    string   `json:"endTime"`   // "19:30"
	FieldTypes []string `json:"fieldTypes,omitempty"`
}

// PricedSlotResponse слот с рассчитанной стоимостью
type PricedSlotResponse struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Price           int64  `json:"price"`
	PriceIsEstimate bool   `json:"priceIsEstimate,omitempty"`
}

// AvailableFieldResponse поле, свободное в запрошенный диапазон
type AvailableFieldResponse struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	Type       string               `json:"type"`
	Facilities []string             `json:"facilities,omitempty"`
	Slots      []PricedSlotResponse `json:"slots"`
}

// Response список свободных полей
type Response struct {
	Date   string                   `json:"date"`
	Fields []AvailableFieldResponse `json:"fields"`
}

// fromDomainAvailableFields конвертирует domain модели в DTO
func fromDomainAvailableFields(date string, fields []domain.AvailableField) *Response {
	resp := &Response{
		Date:   date,
		Fields: make([]AvailableFieldResponse, 0, len(fields)),
	}

	for _, af := range fields {
		slots := make([]PricedSlotResponse, 0, len(af.Slots))
		for _, slot := range af.Slots {
			slots = append(slots, PricedSlotResponse{
				StartTime:       slot.StartTime.String(),
				EndTime:         slot.EndTime.String(),
				Price:           slot.Price,
				PriceIsEstimate: slot.PriceIsEstimate,
			})
		}

		resp.Fields = append(resp.Fields, AvailableFieldResponse{
			ID:         af.Field.ID,
			Name:       af.Field.Name,
			Type:       string(af.Field.Type),
			Facilities: af.Field.Facilities,
			Slots:      slots,
		})
	}

	return resp
}
