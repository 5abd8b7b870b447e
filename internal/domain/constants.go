package domain

import (
	"time"

	"github.com/futbook/FieldBookingService/pkg/types"
)

// Billing granularity
const (
	// BillingBlockMinutes is the fixed billing block the pricing engine walks
	BillingBlockMinutes = 30
)

// Business validation constants
const (
	MinBookingDurationMinutes = 30
	MaxBookingDurationMinutes = 180
	MaxNotesLength            = 500
)

// Operating window for the day-grid enumeration (slot browsing view)
const (
	OperatingDayStart types.TimeString = "06:00"
	OperatingDayEnd   types.TimeString = "22:00"
)

// CancellationGracePeriod is the minimum age a cancelled booking must reach
// before the on-demand cleanup may physically delete it. Younger tombstones
// stay in place and are reclaimed through the revive path instead.
const CancellationGracePeriod = 24 * time.Hour

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, при которых бронирование занимает слот.
// Используется при проверке конфликтов и подсчёте доступности.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusCompleted,
}
