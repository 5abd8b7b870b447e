package domain

import "time"

// FieldType enumerates the supported pitch layouts.
// The set is open: unknown types are carried through and priced via the
// enumeration fallback rate.
type FieldType string

const (
	FieldType5v5   FieldType = "5vs5"
	FieldType7v7   FieldType = "7vs7"
	FieldType11v11 FieldType = "11vs11"
)

// Field represents a physical sports field.
// The core only reads active fields; creation and updates belong to the
// administrative surface outside this service.
type Field struct {
	ID           int64
	Name         string
	Type         FieldType
	PricePerHour float64 // fallback rate when no pricing rule matches
	Facilities   []string
	Active       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
