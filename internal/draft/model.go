package draft

import (
	"github.com/google/uuid"
)

// Kind identifies which editor a session belongs to.
type Kind string

const (
	// KindLocation edits one service's location-level override.
	KindLocation Kind = "location"
	// KindStaffService edits one service for one staff member.
	KindStaffService Kind = "staff_service"
	// KindStaffDrawer edits every service of one staff member at a location.
	KindStaffDrawer Kind = "staff_drawer"
)

// Scope identifies what an editor session is editing. ServiceID is unset for
// the staff drawer, StaffID for location editors.
type Scope struct {
	Kind       Kind
	LocationID uuid.UUID
	StaffID    uuid.UUID
	ServiceID  uuid.UUID
}

// IsStaff reports whether the scope edits staff-level rows.
func (s Scope) IsStaff() bool {
	return s.Kind == KindStaffService || s.Kind == KindStaffDrawer
}

// State is the lifecycle state of a session.
type State int

const (
	// StateClosed is a cancelled, saved or never-opened session.
	StateClosed State = iota
	// StateEditing accepts field operations.
	StateEditing
	// StateSaving waits for the persistence result.
	StateSaving
)

// String returns the lowercase state name used in API responses.
func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	default:
		return "closed"
	}
}

// Row is one editable override row. Location rows always carry CanPerform = true.
type Row struct {
	ServiceID             uuid.UUID
	CanPerform            bool
	CustomPriceMinor      *int64
	CustomDurationMinutes *int
}

func (r Row) clone() Row {
	if r.CustomPriceMinor != nil {
		v := *r.CustomPriceMinor
		r.CustomPriceMinor = &v
	}
	if r.CustomDurationMinutes != nil {
		v := *r.CustomDurationMinutes
		r.CustomDurationMinutes = &v
	}
	return r
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}
	return out
}

// Inherited is the value a row falls back to when its custom fields are nil.
type Inherited struct {
	PriceMinor      int64
	DurationMinutes int
}

// InheritedFunc returns the current inherited value of a service, or false when
// the service is no longer part of the edited scope.
type InheritedFunc func(serviceID uuid.UUID) (Inherited, bool)

// Field names an editable field.
type Field string

const (
	FieldPrice    Field = "customPrice"
	FieldDuration Field = "customDuration"
)

// FieldError is an inline validation error on one field of one row.
type FieldError struct {
	ServiceID uuid.UUID `json:"serviceId"`
	Field     Field     `json:"field"`
	Message   string    `json:"message"`
}

// QuickPickDurations are the duration shortcuts offered next to the duration field.
var QuickPickDurations = []int{15, 30, 45, 60, 120}
