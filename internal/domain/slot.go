package domain

import "github.com/futbook/FieldBookingService/pkg/types"

// PricedSlot represents a bookable time interval annotated with its price.
type PricedSlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Price     int64

	// PriceIsEstimate is set when the price was computed from default rates
	// because pricing rule lookup failed.
	PriceIsEstimate bool
}

// DurationMinutes returns the slot length in minutes.
func (s *PricedSlot) DurationMinutes() (int, error) {
	return s.StartTime.MinutesUntil(s.EndTime)
}

// AvailableField is a field that survived the conflict filter for a
// requested range, together with its priced slots.
type AvailableField struct {
	Field Field
	Slots []PricedSlot
}
