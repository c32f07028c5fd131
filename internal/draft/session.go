// Package draft holds the scratch state of an open price/duration editor.
//
// A Session is seeded from committed rows when an editor opens, mutated by field
// operations, validated on every change, and either saved or cancelled. Revert
// (one field back to the inherited value), Reset (every field back to the
// open-time snapshot) and collapse (nil-ing values equal to the inherited value
// at save time) are separate operations.
package draft

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/currency"
	"github.com/pricebook/pricebook/internal/override"
)

var (
	// ErrSessionClosed is returned for any operation on a closed session.
	ErrSessionClosed = errors.New("editor session is closed")
	// ErrSaveInProgress is returned when a session is waiting for a save result.
	ErrSaveInProgress = errors.New("save in progress")
	// ErrNothingToSave is returned when saving a draft equal to its committed baseline.
	ErrNothingToSave = errors.New("draft has no changes")
	// ErrInvalidDraft is returned when saving a draft with validation errors.
	ErrInvalidDraft = errors.New("draft has validation errors")
	// ErrUnknownService is returned when a field operation targets a service outside the session.
	ErrUnknownService = errors.New("service is not part of this editor")
	// ErrNotQuickPick is returned when a quick-pick duration is not one of QuickPickDurations.
	ErrNotQuickPick = errors.New("not a quick-pick duration")
	// ErrNotStaffScope is returned when toggling CanPerform on a location editor.
	ErrNotStaffScope = errors.New("can perform only applies to staff editors")
)

// MaxDurationMinutes is the longest duration an override may carry: one week.
const MaxDurationMinutes = 7 * 24 * 60

var durationMessage = "duration must be a whole number of minutes between 1 and " + strconv.Itoa(MaxDurationMinutes)

type fieldKey struct {
	serviceID uuid.UUID
	field     Field
}

// Session is the draft state of one open editor. It is not safe for concurrent
// use; callers serialize access per session.
type Session struct {
	id       uuid.UUID
	scope    Scope
	currency currency.Currency
	state    State

	committed []Row
	initial   []Row
	rows      []Row
	index     map[uuid.UUID]int

	priceText    map[uuid.UUID]string
	durationText map[uuid.UUID]string
	errs         map[fieldKey]FieldError

	openedAt     time.Time
	lastActivity time.Time
}

// Open starts an editing session over a copy of committed.
func Open(scope Scope, committed []Row, cur currency.Currency) *Session {
	now := time.Now()
	s := &Session{
		id:           uuid.New(),
		scope:        scope,
		currency:     cur,
		state:        StateEditing,
		committed:    cloneRows(committed),
		initial:      cloneRows(committed),
		rows:         cloneRows(committed),
		index:        make(map[uuid.UUID]int, len(committed)),
		priceText:    make(map[uuid.UUID]string),
		durationText: make(map[uuid.UUID]string),
		errs:         make(map[fieldKey]FieldError),
		openedAt:     now,
		lastActivity: now,
	}
	for i, r := range s.rows {
		s.index[r.ServiceID] = i
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID { return s.id }

// Scope returns what the session edits.
func (s *Session) Scope() Scope { return s.scope }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Currency returns the currency used to parse price text.
func (s *Session) Currency() currency.Currency { return s.currency }

// OpenedAt returns when the session was opened.
func (s *Session) OpenedAt() time.Time { return s.openedAt }

// LastActivity returns the time of the last edit, used for idle eviction.
func (s *Session) LastActivity() time.Time { return s.lastActivity }

// Rows returns a copy of the draft rows in open-time order.
func (s *Session) Rows() []Row { return cloneRows(s.rows) }

// Committed returns a copy of the committed baseline.
func (s *Session) Committed() []Row { return cloneRows(s.committed) }

// Row returns the draft row of a service.
func (s *Session) Row(serviceID uuid.UUID) (Row, bool) {
	i, ok := s.index[serviceID]
	if !ok {
		return Row{}, false
	}
	return s.rows[i].clone(), true
}

// PendingText returns raw input that has not been accepted into the draft value
// of a field.
func (s *Session) PendingText(serviceID uuid.UUID, f Field) (string, bool) {
	var (
		text string
		ok   bool
	)
	switch f {
	case FieldPrice:
		text, ok = s.priceText[serviceID]
	case FieldDuration:
		text, ok = s.durationText[serviceID]
	}
	return text, ok
}

// Errors returns the current validation errors in row order, price before duration.
func (s *Session) Errors() []FieldError {
	out := make([]FieldError, 0, len(s.errs))
	for _, r := range s.rows {
		for _, f := range []Field{FieldPrice, FieldDuration} {
			if fe, ok := s.errs[fieldKey{r.ServiceID, f}]; ok {
				out = append(out, fe)
			}
		}
	}
	return out
}

// HasErrors reports whether any field carries a validation error.
func (s *Session) HasErrors() bool { return len(s.errs) > 0 }

// Dirty reports whether the draft differs from the committed baseline.
func (s *Session) Dirty() bool { return IsDirty(s.rows, s.committed) }

// CanSave reports whether Save should be enabled.
func (s *Session) CanSave() bool {
	return s.state == StateEditing && s.Dirty() && !s.HasErrors()
}

func (s *Session) editable(serviceID uuid.UUID) (int, error) {
	switch s.state {
	case StateClosed:
		return 0, ErrSessionClosed
	case StateSaving:
		return 0, ErrSaveInProgress
	}
	i, ok := s.index[serviceID]
	if !ok {
		return 0, ErrUnknownService
	}
	s.lastActivity = time.Now()
	return i, nil
}

func (s *Session) setError(serviceID uuid.UUID, f Field, msg string) {
	s.errs[fieldKey{serviceID, f}] = FieldError{ServiceID: serviceID, Field: f, Message: msg}
}

func (s *Session) clearField(serviceID uuid.UUID, f Field) {
	delete(s.errs, fieldKey{serviceID, f})
	switch f {
	case FieldPrice:
		delete(s.priceText, serviceID)
	case FieldDuration:
		delete(s.durationText, serviceID)
	}
}

// SetPriceText applies typed price text. Invalid text is kept as pending input
// with a field error and leaves the draft value unchanged.
func (s *Session) SetPriceText(serviceID uuid.UUID, text string) error {
	i, err := s.editable(serviceID)
	if err != nil {
		return err
	}

	v, err := currency.ParseDisplay(text)
	switch {
	case strings.TrimSpace(text) == "":
		s.priceText[serviceID] = text
		s.setError(serviceID, FieldPrice, "price is required")
	case err != nil:
		s.priceText[serviceID] = text
		s.setError(serviceID, FieldPrice, "price must be a number")
	case v < 0:
		s.priceText[serviceID] = text
		s.setError(serviceID, FieldPrice, "price must not be negative")
	default:
		minor, err := currency.ToStorageChecked(v, s.currency.MinorUnits)
		if err != nil {
			s.priceText[serviceID] = text
			s.setError(serviceID, FieldPrice, "price is too large")
			return nil
		}
		s.rows[i].CustomPriceMinor = &minor
		s.clearField(serviceID, FieldPrice)
	}
	return nil
}

// SetDurationText applies typed duration text. The raw text is kept until blur
// so partially typed input is never coerced while the field has focus.
func (s *Session) SetDurationText(serviceID uuid.UUID, text string) error {
	i, err := s.editable(serviceID)
	if err != nil {
		return err
	}

	s.durationText[serviceID] = text
	minutes, ok := parseDuration(text)
	if !ok {
		s.setError(serviceID, FieldDuration, durationMessage)
		return nil
	}
	s.rows[i].CustomDurationMinutes = &minutes
	delete(s.errs, fieldKey{serviceID, FieldDuration})
	return nil
}

// BlurDuration finishes typed duration input. Text that is empty, "0" or not an
// integer >= 1 reverts the field to the inherited value; the returned FieldError
// reports the rejection but is not retained on the session.
func (s *Session) BlurDuration(serviceID uuid.UUID) (*FieldError, error) {
	i, err := s.editable(serviceID)
	if err != nil {
		return nil, err
	}

	text, pending := s.durationText[serviceID]
	if !pending {
		return nil, nil
	}
	s.clearField(serviceID, FieldDuration)

	if _, ok := parseDuration(text); ok {
		return nil, nil
	}
	s.rows[i].CustomDurationMinutes = nil
	return &FieldError{
		ServiceID: serviceID,
		Field:     FieldDuration,
		Message:   durationMessage,
	}, nil
}

// PickDuration applies a quick-pick duration and clears any pending error.
func (s *Session) PickDuration(serviceID uuid.UUID, minutes int) error {
	if !slices.Contains(QuickPickDurations, minutes) {
		return ErrNotQuickPick
	}
	i, err := s.editable(serviceID)
	if err != nil {
		return err
	}
	s.rows[i].CustomDurationMinutes = &minutes
	s.clearField(serviceID, FieldDuration)
	return nil
}

// SetCanPerform toggles a staff row. Custom values are kept so re-enabling
// restores the prior customization.
func (s *Session) SetCanPerform(serviceID uuid.UUID, enabled bool) error {
	if !s.scope.IsStaff() {
		return ErrNotStaffScope
	}
	i, err := s.editable(serviceID)
	if err != nil {
		return err
	}
	s.rows[i].CanPerform = enabled
	return nil
}

// RevertPrice sets the draft price to the inherited value. Save collapses it to nil.
func (s *Session) RevertPrice(serviceID uuid.UUID, inherited Inherited) error {
	i, err := s.editable(serviceID)
	if err != nil {
		return err
	}
	v := inherited.PriceMinor
	s.rows[i].CustomPriceMinor = &v
	s.clearField(serviceID, FieldPrice)
	return nil
}

// RevertDuration sets the draft duration to the inherited value. Save collapses it to nil.
func (s *Session) RevertDuration(serviceID uuid.UUID, inherited Inherited) error {
	i, err := s.editable(serviceID)
	if err != nil {
		return err
	}
	v := inherited.DurationMinutes
	s.rows[i].CustomDurationMinutes = &v
	s.clearField(serviceID, FieldDuration)
	return nil
}

// Reset restores every row to the snapshot taken when the session opened.
func (s *Session) Reset() error {
	switch s.state {
	case StateClosed:
		return ErrSessionClosed
	case StateSaving:
		return ErrSaveInProgress
	}
	s.rows = cloneRows(s.initial)
	clear(s.priceText)
	clear(s.durationText)
	clear(s.errs)
	s.lastActivity = time.Now()
	return nil
}

// BeginSave validates the draft, collapses every field against the freshly
// computed inherited values and moves the session to StateSaving. Rows whose
// service inherit no longer knows are dropped.
func (s *Session) BeginSave(inherit InheritedFunc) ([]Row, error) {
	switch s.state {
	case StateClosed:
		return nil, ErrSessionClosed
	case StateSaving:
		return nil, ErrSaveInProgress
	}
	if s.HasErrors() {
		return nil, ErrInvalidDraft
	}
	if !s.Dirty() {
		return nil, ErrNothingToSave
	}

	out := make([]Row, 0, len(s.rows))
	for _, r := range s.rows {
		inh, ok := inherit(r.ServiceID)
		if !ok {
			continue
		}
		r = r.clone()
		r.CustomPriceMinor = override.Collapse(r.CustomPriceMinor, inh.PriceMinor)
		r.CustomDurationMinutes = override.Collapse(r.CustomDurationMinutes, inh.DurationMinutes)
		out = append(out, r)
	}

	s.state = StateSaving
	s.lastActivity = time.Now()
	return out, nil
}

// CompleteSave closes the session after the persistence layer confirmed the save.
func (s *Session) CompleteSave() error {
	if s.state != StateSaving {
		return ErrSessionClosed
	}
	s.close()
	return nil
}

// AbortSave returns to editing after a failed save, keeping the draft intact.
func (s *Session) AbortSave() error {
	if s.state != StateSaving {
		return ErrSessionClosed
	}
	s.state = StateEditing
	s.lastActivity = time.Now()
	return nil
}

// Cancel discards the draft without committing anything.
func (s *Session) Cancel() error {
	switch s.state {
	case StateClosed:
		return ErrSessionClosed
	case StateSaving:
		return ErrSaveInProgress
	}
	s.close()
	return nil
}

func (s *Session) close() {
	s.state = StateClosed
	s.rows = nil
	s.initial = nil
	clear(s.priceText)
	clear(s.durationText)
	clear(s.errs)
}

func parseDuration(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > MaxDurationMinutes {
		return 0, false
	}
	return n, true
}
