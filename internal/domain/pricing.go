package domain

import "time"

// PricingRule maps a half-open hour range [StartHour, EndHour) of a field
// type to an hourly rate. Rules may overlap: resolution picks the matching
// rule with the greatest StartHour, so an administrator can layer a narrow
// override on top of a base schedule and the override wins.
type PricingRule struct {
	ID           int64
	FieldType    FieldType
	StartHour    int
	EndHour      int
	PricePerHour float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matches reports whether the rule covers the given hour of day.
func (r *PricingRule) Matches(hour int) bool {
	return r.StartHour <= hour && hour < r.EndHour
}

// RoundingMode selects how the pricing engine rounds block amounts.
type RoundingMode string

const (
	// RoundTotal accrues exact block amounts and rounds the sum once at the
	// end. This is the precise mode used for new reservations.
	RoundTotal RoundingMode = "total"

	// RoundPerBlock rounds every 30-minute block amount independently and
	// sums the rounded values. Kept for the day-grid enumeration path, which
	// historically priced each cell on its own.
	RoundPerBlock RoundingMode = "per_block"
)

// DefaultHourlyRates is the fallback rate table of the booking path: used by
// the pricing engine when no rule covers a block's hour or when rule lookup
// fails entirely.
var DefaultHourlyRates = map[FieldType]float64{
	FieldType5v5:   200000,
	FieldType7v7:   300000,
	FieldType11v11: 500000,
}

// EnumerationFallbackHourlyRate is the flat rate of the day-grid enumeration
// path for field types absent from DefaultHourlyRates. It deliberately
// differs from the booking-path table; the two are separate business
// defaults, not drift to be unified.
const EnumerationFallbackHourlyRate float64 = 100000

// EnumerationFallbackSlotPrice is the per-30-minute-cell price derived from
// EnumerationFallbackHourlyRate.
const EnumerationFallbackSlotPrice int64 = 50000

// DefaultHourlyRate returns the booking-path default rate for the field type
// and whether the type is present in the table.
func DefaultHourlyRate(ft FieldType) (float64, bool) {
	rate, ok := DefaultHourlyRates[ft]
	return rate, ok
}
