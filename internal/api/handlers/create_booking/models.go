package create_booking

import (
	bookingModels "github.com/futbook/FieldBookingService/internal/service/bookings/models"
	createBooking "github.com/futbook/FieldBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FieldID       int64   `json:"fieldId"`
	BookingDate   string  `json:"bookingDate"` // "2025-06-01"
	StartTime     string  `json:"startTime"`   // "18:00"
	EndTime       string  `json:"endTime"`     // "19:30"
	PaymentMethod string  `json:"paymentMethod"`
	Notes         *string `json:"notes,omitempty"`
	AdminEntry    bool    `json:"adminEntry,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking         *bookingModels.BookingResponse `json:"booking"`
	Revived         bool                           `json:"revived"`
	PriceIsEstimate bool                           `json:"priceIsEstimate"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// userID приходит из заголовка аутентификации, не из тела
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) *createBooking.Request {
	return &createBooking.Request{
		FieldID:       r.FieldID,
		UserID:        userID,
		BookingDate:   r.BookingDate,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
		AdminEntry:    r.AdminEntry,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:         resp.Booking,
		Revived:         resp.Revived,
		PriceIsEstimate: resp.PriceIsEstimate,
	}
}
