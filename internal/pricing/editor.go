package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/currency"
	"github.com/pricebook/pricebook/internal/draft"
	"github.com/pricebook/pricebook/internal/events"
	"github.com/pricebook/pricebook/internal/location"
	"github.com/pricebook/pricebook/internal/override"
	"github.com/pricebook/pricebook/internal/reconciler"
	"github.com/pricebook/pricebook/internal/staff"
)

var (
	// ErrUnknownOp is returned for an edit operation the editor does not support.
	ErrUnknownOp = errors.New("unknown edit operation")
	// ErrSaveFailed wraps a persistence failure during save. The draft is kept.
	ErrSaveFailed = errors.New("saving overrides failed")
)

// Op is a single field operation on an open editor.
type Op string

const (
	OpSetPrice       Op = "set_price"
	OpSetDuration    Op = "set_duration"
	OpBlurDuration   Op = "blur_duration"
	OpPickDuration   Op = "pick_duration"
	OpSetCanPerform  Op = "set_can_perform"
	OpRevertPrice    Op = "revert_price"
	OpRevertDuration Op = "revert_duration"
)

// Ops lists every supported Op.
var Ops = []Op{OpSetPrice, OpSetDuration, OpBlurDuration, OpPickDuration, OpSetCanPerform, OpRevertPrice, OpRevertDuration}

// Edit is one field operation. ServiceID defaults to the editor's service for
// single-service editors.
type Edit struct {
	Op        Op
	ServiceID uuid.UUID
	Text      string
	Minutes   int
	Enabled   bool
}

// EditorRow is one row of an editor view.
type EditorRow struct {
	ServiceID             uuid.UUID
	Name                  string
	CanPerform            bool
	CustomPriceMinor      *int64
	CustomDurationMinutes *int
	Inherited             draft.Inherited
	Effective             override.EffectiveValue
	IsCustom              bool
	PriceText             *string
	DurationText          *string
}

// EditorView is a snapshot of an editor session.
type EditorView struct {
	SessionID uuid.UUID
	Scope     draft.Scope
	State     draft.State
	Currency  currency.Currency
	Filter    reconciler.Filter
	Rows      []EditorRow
	Counts    reconciler.Counts
	Errors    []draft.FieldError
	Dirty     bool
	CanSave   bool
}

// EditResult is the outcome of an Edit. Rejected is set when a duration blur
// discarded invalid input.
type EditResult struct {
	View     *EditorView
	Rejected *draft.FieldError
}

// SaveResult describes a committed save.
type SaveResult struct {
	SessionID uuid.UUID
	Scope     draft.Scope
	Rows      []draft.Row
}

// scopeRow carries what a view needs besides the draft row itself.
type scopeRow struct {
	name      string
	inherited draft.Inherited
}

// scopeContext is a fresh read of what an editor's scope inherits from.
type scopeContext struct {
	currency currency.Currency
	order    []uuid.UUID
	rows     map[uuid.UUID]scopeRow
}

func (c *scopeContext) inherited(serviceID uuid.UUID) (draft.Inherited, bool) {
	r, ok := c.rows[serviceID]
	return r.inherited, ok
}

// OpenLocationEditor opens an editor over one service's location override.
func (s *Service) OpenLocationEditor(ctx context.Context, locationID, serviceID uuid.UUID) (*EditorView, error) {
	scope := draft.Scope{Kind: draft.KindLocation, LocationID: locationID, ServiceID: serviceID}
	a, err := s.locations.GetAssigned(ctx, locationID, serviceID)
	if err != nil {
		return nil, err
	}
	committed := []draft.Row{{
		ServiceID:             serviceID,
		CanPerform:            true,
		CustomPriceMinor:      a.Override.CustomPriceMinor,
		CustomDurationMinutes: a.Override.CustomDurationMinutes,
	}}
	return s.open(ctx, scope, committed)
}

// OpenStaffServiceEditor opens an editor over one service of one staff member.
// A missing staff setting opens as a disabled, uncustomized row.
func (s *Service) OpenStaffServiceEditor(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*EditorView, error) {
	scope := draft.Scope{Kind: draft.KindStaffService, LocationID: locationID, StaffID: staffID, ServiceID: serviceID}
	if _, err := s.locations.GetAssigned(ctx, locationID, serviceID); err != nil {
		return nil, err
	}

	row := draft.Row{ServiceID: serviceID}
	so, err := s.staff.Get(ctx, locationID, staffID, serviceID)
	switch {
	case err == nil:
		row.CanPerform = so.CanPerform
		row.CustomPriceMinor = so.CustomPriceMinor
		row.CustomDurationMinutes = so.CustomDurationMinutes
	case !errors.Is(err, staff.ErrOverrideNotFound):
		return nil, err
	}
	return s.open(ctx, scope, []draft.Row{row})
}

// OpenStaffDrawer opens the bulk editor over every service assigned at the
// location for one staff member.
func (s *Service) OpenStaffDrawer(ctx context.Context, locationID, staffID uuid.UUID) (*EditorView, error) {
	scope := draft.Scope{Kind: draft.KindStaffDrawer, LocationID: locationID, StaffID: staffID}
	assigned, err := s.locations.ListAssigned(ctx, locationID)
	if err != nil {
		return nil, err
	}
	existing, err := s.staff.List(ctx, locationID, staffID)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, scope, reconciler.Rows(reconciler.Merge(assigned, existing)))
}

func (s *Service) open(ctx context.Context, scope draft.Scope, committed []draft.Row) (*EditorView, error) {
	sc, err := s.scopeContext(ctx, scope)
	if err != nil {
		return nil, err
	}
	sess := draft.Open(scope, committed, sc.currency)
	s.sessions.Put(sess)
	slog.Info("editor opened", "sessionId", sess.ID(), "kind", scope.Kind, "locationId", scope.LocationID)
	return buildView(sess, sc, reconciler.FilterAll), nil
}

// Editor returns the current view of an open session. The filter only narrows
// drawer rows.
func (s *Service) Editor(ctx context.Context, sessionID uuid.UUID, f reconciler.Filter) (*EditorView, error) {
	sc, err := s.sessionContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var view *EditorView
	err = s.sessions.With(sessionID, func(sess *draft.Session) error {
		view = buildView(sess, sc, f)
		return nil
	})
	return view, err
}

// Edit applies one field operation to an open session.
func (s *Service) Edit(ctx context.Context, sessionID uuid.UUID, e Edit) (*EditResult, error) {
	sc, err := s.sessionContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res := &EditResult{}
	err = s.sessions.With(sessionID, func(sess *draft.Session) error {
		serviceID := e.ServiceID
		if serviceID == uuid.Nil {
			serviceID = sess.Scope().ServiceID
		}
		rejected, err := apply(sess, serviceID, e, sc)
		if err != nil {
			return err
		}
		res.Rejected = rejected
		res.View = buildView(sess, sc, reconciler.FilterAll)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func apply(sess *draft.Session, serviceID uuid.UUID, e Edit, sc *scopeContext) (*draft.FieldError, error) {
	switch e.Op {
	case OpSetPrice:
		return nil, sess.SetPriceText(serviceID, e.Text)
	case OpSetDuration:
		return nil, sess.SetDurationText(serviceID, e.Text)
	case OpBlurDuration:
		return sess.BlurDuration(serviceID)
	case OpPickDuration:
		return nil, sess.PickDuration(serviceID, e.Minutes)
	case OpSetCanPerform:
		return nil, sess.SetCanPerform(serviceID, e.Enabled)
	case OpRevertPrice, OpRevertDuration:
		inh, ok := sc.inherited(serviceID)
		if !ok {
			return nil, draft.ErrUnknownService
		}
		if e.Op == OpRevertPrice {
			return nil, sess.RevertPrice(serviceID, inh)
		}
		return nil, sess.RevertDuration(serviceID, inh)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, e.Op)
	}
}

// Reset restores every field of the session to its open-time values.
func (s *Service) Reset(ctx context.Context, sessionID uuid.UUID) (*EditorView, error) {
	sc, err := s.sessionContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var view *EditorView
	err = s.sessions.With(sessionID, func(sess *draft.Session) error {
		if err := sess.Reset(); err != nil {
			return err
		}
		view = buildView(sess, sc, reconciler.FilterAll)
		return nil
	})
	return view, err
}

// Cancel discards the session's draft.
func (s *Service) Cancel(_ context.Context, sessionID uuid.UUID) error {
	err := s.sessions.With(sessionID, func(sess *draft.Session) error {
		return sess.Cancel()
	})
	if err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	slog.Info("editor cancelled", "sessionId", sessionID)
	return nil
}

// Save collapses the draft against freshly read inherited values and commits
// it. A persistence failure returns the session to editing with the draft
// intact.
func (s *Service) Save(ctx context.Context, sessionID uuid.UUID) (*SaveResult, error) {
	sc, err := s.sessionContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var (
		scope draft.Scope
		rows  []draft.Row
	)
	err = s.sessions.With(sessionID, func(sess *draft.Session) error {
		scope = sess.Scope()
		collapsed, err := sess.BeginSave(sc.inherited)
		rows = collapsed
		return err
	})
	if err != nil {
		return nil, err
	}

	// A single-service editor whose service was unassigned while open has
	// nothing it may write.
	if scope.Kind != draft.KindStaffDrawer && len(rows) == 0 {
		s.abortSave(sessionID)
		return nil, location.ErrNotAssigned
	}

	if err := s.persist(ctx, scope, rows); err != nil {
		slog.Error("saving editor failed", "sessionId", sessionID, "kind", scope.Kind, "error", err)
		s.abortSave(sessionID)
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	if err := s.sessions.With(sessionID, func(sess *draft.Session) error { return sess.CompleteSave() }); err != nil {
		slog.Warn("completing save failed", "sessionId", sessionID, "error", err)
	}
	s.sessions.Delete(sessionID)

	if err := s.cache.InvalidateLocation(ctx, scope.LocationID); err != nil {
		slog.Warn("cache invalidation failed", "locationId", scope.LocationID, "error", err)
	}
	s.publish(ctx, scope, rows)

	slog.Info("editor saved", "sessionId", sessionID, "kind", scope.Kind, "rows", len(rows))
	return &SaveResult{SessionID: sessionID, Scope: scope, Rows: rows}, nil
}

func (s *Service) abortSave(sessionID uuid.UUID) {
	err := s.sessions.With(sessionID, func(sess *draft.Session) error { return sess.AbortSave() })
	if err != nil {
		slog.Warn("aborting save failed", "sessionId", sessionID, "error", err)
	}
}

func (s *Service) persist(ctx context.Context, scope draft.Scope, rows []draft.Row) error {
	if len(rows) == 0 {
		return nil
	}
	switch scope.Kind {
	case draft.KindLocation:
		r := rows[0]
		return s.locations.SaveOverride(ctx, location.Override{
			LocationID:            scope.LocationID,
			ServiceID:             r.ServiceID,
			CustomPriceMinor:      r.CustomPriceMinor,
			CustomDurationMinutes: r.CustomDurationMinutes,
		})
	case draft.KindStaffService:
		return s.staff.Save(ctx, staffOverride(scope, rows[0]))
	case draft.KindStaffDrawer:
		overrides := make([]staff.Override, len(rows))
		for i, r := range rows {
			overrides[i] = staffOverride(scope, r)
		}
		return s.staff.ReplaceAll(ctx, scope.LocationID, scope.StaffID, overrides)
	default:
		return fmt.Errorf("unsupported editor kind %q", scope.Kind)
	}
}

func staffOverride(scope draft.Scope, r draft.Row) staff.Override {
	return staff.Override{
		LocationID:            scope.LocationID,
		StaffID:               scope.StaffID,
		ServiceID:             r.ServiceID,
		CanPerform:            r.CanPerform,
		CustomPriceMinor:      r.CustomPriceMinor,
		CustomDurationMinutes: r.CustomDurationMinutes,
	}
}

func (s *Service) publish(ctx context.Context, scope draft.Scope, rows []draft.Row) {
	e := events.OverridesCommitted{
		EventID:     uuid.New(),
		Kind:        string(scope.Kind),
		LocationID:  scope.LocationID,
		Rows:        make([]events.CommittedRow, len(rows)),
		CommittedAt: time.Now().UTC(),
	}
	if scope.IsStaff() {
		staffID := scope.StaffID
		e.StaffID = &staffID
	}
	for i, r := range rows {
		cr := events.CommittedRow{
			ServiceID:             r.ServiceID,
			CustomPriceMinor:      r.CustomPriceMinor,
			CustomDurationMinutes: r.CustomDurationMinutes,
		}
		if scope.IsStaff() {
			enabled := r.CanPerform
			cr.CanPerform = &enabled
		}
		e.Rows[i] = cr
	}
	if err := s.publisher.PublishCommitted(ctx, e); err != nil {
		slog.Warn("publishing commit event failed", "eventId", e.EventID, "error", err)
	}
}

// sessionContext reads the scope of an open session and its current
// inheritance without holding the session lock during repository reads.
func (s *Service) sessionContext(ctx context.Context, sessionID uuid.UUID) (*scopeContext, error) {
	var scope draft.Scope
	err := s.sessions.With(sessionID, func(sess *draft.Session) error {
		scope = sess.Scope()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.scopeContext(ctx, scope)
}

// scopeContext reads the values a scope inherits from, bypassing the cache.
func (s *Service) scopeContext(ctx context.Context, scope draft.Scope) (*scopeContext, error) {
	loc, err := s.locations.Get(ctx, scope.LocationID)
	if err != nil {
		return nil, err
	}
	sc := &scopeContext{currency: s.currencyOf(loc), rows: make(map[uuid.UUID]scopeRow)}

	add := func(a location.AssignedService) {
		var inh override.EffectiveValue
		if scope.Kind == draft.KindLocation {
			inh = override.EffectiveValue{PriceMinor: a.DefaultPriceMinor, DurationMinutes: a.DefaultDurationMinutes}
		} else {
			inh = reconciler.LocationTier(a)
		}
		sc.order = append(sc.order, a.ServiceID)
		sc.rows[a.ServiceID] = scopeRow{
			name:      a.Name,
			inherited: draft.Inherited{PriceMinor: inh.PriceMinor, DurationMinutes: inh.DurationMinutes},
		}
	}

	if scope.Kind == draft.KindStaffDrawer {
		assigned, err := s.locations.ListAssigned(ctx, scope.LocationID)
		if err != nil {
			return nil, err
		}
		for _, a := range assigned {
			add(a)
		}
		return sc, nil
	}

	a, err := s.locations.GetAssigned(ctx, scope.LocationID, scope.ServiceID)
	switch {
	case err == nil:
		add(*a)
	case !errors.Is(err, location.ErrNotAssigned):
		return nil, err
	}
	return sc, nil
}

func buildView(sess *draft.Session, sc *scopeContext, f reconciler.Filter) *EditorView {
	view := &EditorView{
		SessionID: sess.ID(),
		Scope:     sess.Scope(),
		State:     sess.State(),
		Currency:  sess.Currency(),
		Filter:    f,
		Errors:    sess.Errors(),
		Dirty:     sess.Dirty(),
		CanSave:   sess.CanSave(),
	}

	rows := sess.Rows()
	merged := make([]reconciler.StaffService, 0, len(rows))
	for _, r := range rows {
		info, ok := sc.rows[r.ServiceID]
		if !ok {
			continue
		}
		merged = append(merged, reconciler.StaffService{
			ServiceID:                r.ServiceID,
			Name:                     info.name,
			CanPerform:               r.CanPerform,
			CustomPriceMinor:         r.CustomPriceMinor,
			CustomDurationMinutes:    r.CustomDurationMinutes,
			InheritedPriceMinor:      info.inherited.PriceMinor,
			InheritedDurationMinutes: info.inherited.DurationMinutes,
		})
	}
	view.Counts = reconciler.Count(merged)

	for _, m := range f.Apply(merged) {
		row := EditorRow{
			ServiceID:             m.ServiceID,
			Name:                  m.Name,
			CanPerform:            m.CanPerform,
			CustomPriceMinor:      m.CustomPriceMinor,
			CustomDurationMinutes: m.CustomDurationMinutes,
			Inherited:             m.Inherited(),
			Effective:             m.Effective(),
			IsCustom:              m.IsCustom(),
		}
		if t, ok := sess.PendingText(m.ServiceID, draft.FieldPrice); ok {
			row.PriceText = &t
		}
		if t, ok := sess.PendingText(m.ServiceID, draft.FieldDuration); ok {
			row.DurationText = &t
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}
