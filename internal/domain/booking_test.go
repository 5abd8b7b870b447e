package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/futbook/FieldBookingService/pkg/types"
)

func TestBooking_Overlaps(t *testing.T) {
	booking := &Booking{StartTime: "18:00", EndTime: "19:00"}

	tests := []struct {
		name  string
		start types.TimeString
		end   types.TimeString
		want  bool
	}{
		{name: "identical interval", start: "18:00", end: "19:00", want: true},
		{name: "contained inside", start: "18:15", end: "18:45", want: true},
		{name: "contains booking", start: "17:00", end: "20:00", want: true},
		{name: "overlaps start", start: "17:30", end: "18:30", want: true},
		{name: "overlaps end", start: "18:30", end: "19:30", want: true},
		{name: "touches start boundary", start: "17:00", end: "18:00", want: false},
		{name: "touches end boundary", start: "19:00", end: "20:00", want: false},
		{name: "disjoint before", start: "15:00", end: "16:00", want: false},
		{name: "disjoint after", start: "20:00", end: "21:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.start, tt.end))

			// Предикат симметричен: поменяв интервалы местами, получаем
			// тот же ответ
			other := &Booking{StartTime: tt.start, EndTime: tt.end}
			assert.Equal(t, tt.want, other.Overlaps(booking.StartTime, booking.EndTime))
		})
	}
}

func TestBooking_IsActive(t *testing.T) {
	for _, status := range []BookingStatus{StatusPending, StatusApproved, StatusCompleted} {
		b := &Booking{Status: status}
		assert.True(t, b.IsActive(), "status %s must occupy the slot", status)
	}

	cancelled := &Booking{Status: StatusCancelled}
	assert.False(t, cancelled.IsActive())
	assert.True(t, cancelled.IsCancelled())
}

func TestBooking_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusApproved}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelled())
}

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusApproved, false},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.from}
		assert.Equal(t, tt.want, b.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
