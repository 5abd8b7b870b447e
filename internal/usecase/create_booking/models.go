package create_booking

import (
	"github.com/futbook/FieldBookingService/internal/domain"
	"github.com/futbook/FieldBookingService/internal/service/bookings/models"
)

// Request запрос на создание бронирования
type Request struct {
	FieldID       int64   `json:"fieldId"`
	UserID        int64   `json:"userId"`
	BookingDate   string  `json:"bookingDate"` // "2025-06-01"
	StartTime     string  `json:"startTime"`   // "18:00"
	EndTime       string  `json:"endTime"`     // "19:30"
	PaymentMethod string  `json:"paymentMethod"`
	Notes         *string `json:"notes,omitempty"`

	// AdminEntry - ручная запись администратора, создаётся сразу в approved
	AdminEntry bool `json:"adminEntry,omitempty"`
}

// Response ответ с созданным (или возрождённым) бронированием
type Response struct {
	Booking *models.BookingResponse `json:"booking"`

	// Revived - запись повторно использует строку отменённого бронирования
	// того же слота вместо вставки новой
	Revived bool `json:"revived"`

	// PriceIsEstimate - сумма рассчитана по тарифу по умолчанию,
	// так как правила ценообразования были недоступны
	PriceIsEstimate bool `json:"priceIsEstimate"`
}

func initialStatus(adminEntry bool) domain.BookingStatus {
	if adminEntry {
		return domain.StatusApproved
	}
	return domain.StatusPending
}
