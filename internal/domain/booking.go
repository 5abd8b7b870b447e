package domain

import (
	"time"

	"github.com/futbook/FieldBookingService/pkg/types"
)

// BookingStatus represents the status of a field reservation
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state of a reservation
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking represents a field reservation in the system.
// StartTime/EndTime form a half-open wall-clock interval [start, end).
type Booking struct {
	ID            int64
	FieldID       int64
	UserID        int64
	BookingDate   time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	TotalAmount   int64
	Status        BookingStatus
	PaymentStatus PaymentStatus
	PaymentMethod string
	Notes         *string

	// PriceIsEstimate marks bookings whose amount was computed from
	// default rates because pricing rule lookup failed. Not persisted.
	PriceIsEstimate bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its slot.
// Cancelled bookings are tombstones and never count as occupying.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// CanTransitionTo reports whether moving to next is a legal status change:
// pending -> approved -> completed, pending|approved -> cancelled.
// completed and cancelled are terminal.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusApproved || next == StatusCancelled
	case StatusApproved:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// DurationMinutes returns the booking length in minutes.
func (b *Booking) DurationMinutes() (int, error) {
	return b.StartTime.MinutesUntil(b.EndTime)
}

// Overlaps reports whether the booking interval intersects [start, end).
// Intervals that merely touch at a boundary do not overlap.
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	return b.StartTime.IsBefore(end) && start.IsBefore(b.EndTime)
}

// FieldDayFilter фильтр для выборки бронирований поля на конкретную дату
type FieldDayFilter struct {
	FieldID          int64
	Date             time.Time
	IncludeCancelled bool   // Включать ли отменённые (tombstone) бронирования
	ExcludeBookingID *int64 // Исключить бронирование (при проверке против самого себя)
}
