package models

import (
	"errors"
	"time"

	"github.com/futbook/FieldBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentStatus возвращается при некорректном платёжном статусе
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID int64  `json:"userId"`
	Reason string `json:"reason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	FieldID       int64   `json:"fieldId"`
	UserID        int64   `json:"userId"`
	BookingDate   string  `json:"bookingDate"` // "2025-06-01"
	StartTime     string  `json:"startTime"`   // "18:00"
	EndTime       string  `json:"endTime"`     // "19:00"
	TotalAmount   int64   `json:"totalAmount"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:            b.ID,
		FieldID:       b.FieldID,
		UserID:        b.UserID,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		StartTime:     b.StartTime.String(),
		EndTime:       b.EndTime.String(),
		TotalAmount:   b.TotalAmount,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		PaymentMethod: b.PaymentMethod,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	switch s {
	case domain.StatusPending, domain.StatusApproved, domain.StatusCompleted, domain.StatusCancelled:
		return s, nil
	}

	return "", ErrInvalidStatus
}

// ToDomainPaymentStatus конвертирует строку в domain.PaymentStatus с валидацией
func ToDomainPaymentStatus(status string) (domain.PaymentStatus, error) {
	s := domain.PaymentStatus(status)

	switch s {
	case domain.PaymentPending, domain.PaymentPaid, domain.PaymentRefunded:
		return s, nil
	}

	return "", ErrInvalidPaymentStatus
}
