package handler

import (
	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/currency"
	"github.com/pricebook/pricebook/internal/draft"
	"github.com/pricebook/pricebook/internal/override"
	"github.com/pricebook/pricebook/internal/pricing"
	"github.com/pricebook/pricebook/internal/reconciler"
)

type currencyResponse struct {
	Code       string `json:"code"`
	MinorUnits int    `json:"minorUnits"`
}

func toCurrencyResponse(c currency.Currency) currencyResponse {
	return currencyResponse{Code: c.Code, MinorUnits: c.MinorUnits}
}

// valueResponse is a resolved price/duration pair. Price is the display amount.
type valueResponse struct {
	PriceMinor      int64  `json:"priceMinor"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"durationMinutes"`
	IsCustom        bool   `json:"isCustom"`
}

func toValueResponse(v override.EffectiveValue, c currency.Currency) valueResponse {
	return valueResponse{
		PriceMinor:      v.PriceMinor,
		Price:           currency.Format(v.PriceMinor, c),
		DurationMinutes: v.DurationMinutes,
		IsCustom:        v.IsCustom,
	}
}

type inheritedResponse struct {
	PriceMinor      int64  `json:"priceMinor"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"durationMinutes"`
}

func toInheritedResponse(v draft.Inherited, c currency.Currency) inheritedResponse {
	return inheritedResponse{
		PriceMinor:      v.PriceMinor,
		Price:           currency.Format(v.PriceMinor, c),
		DurationMinutes: v.DurationMinutes,
	}
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func nonNilID(id uuid.UUID) *string {
	if id == uuid.Nil {
		return nil
	}
	s := id.String()
	return &s
}

// --- Location listing ---

type locationServiceResponse struct {
	ServiceID              string        `json:"serviceId"`
	Name                   string        `json:"name"`
	CategoryID             *string       `json:"categoryId"`
	DefaultPriceMinor      int64         `json:"defaultPriceMinor"`
	DefaultDurationMinutes int           `json:"defaultDurationMinutes"`
	CustomPriceMinor       *int64        `json:"customPriceMinor"`
	CustomDurationMinutes  *int          `json:"customDurationMinutes"`
	Effective              valueResponse `json:"effective"`
}

type locationServicesResponse struct {
	LocationID string                    `json:"locationId"`
	Currency   currencyResponse          `json:"currency"`
	Services   []locationServiceResponse `json:"services"`
}

func toLocationServicesResponse(l *pricing.LocationListing) locationServicesResponse {
	resp := locationServicesResponse{
		LocationID: l.LocationID.String(),
		Currency:   toCurrencyResponse(l.Currency),
		Services:   make([]locationServiceResponse, 0, len(l.Rows)),
	}
	for _, row := range l.Rows {
		a := row.Service
		resp.Services = append(resp.Services, locationServiceResponse{
			ServiceID:              a.ServiceID.String(),
			Name:                   a.Name,
			CategoryID:             optionalID(a.CategoryID),
			DefaultPriceMinor:      a.DefaultPriceMinor,
			DefaultDurationMinutes: a.DefaultDurationMinutes,
			CustomPriceMinor:       a.Override.CustomPriceMinor,
			CustomDurationMinutes:  a.Override.CustomDurationMinutes,
			Effective:              toValueResponse(row.Effective, l.Currency),
		})
	}
	return resp
}

// --- Staff listing ---

type staffServiceResponse struct {
	ServiceID             string            `json:"serviceId"`
	Name                  string            `json:"name"`
	CategoryID            *string           `json:"categoryId"`
	CanPerform            bool              `json:"canPerform"`
	CustomPriceMinor      *int64            `json:"customPriceMinor"`
	CustomDurationMinutes *int              `json:"customDurationMinutes"`
	Inherited             inheritedResponse `json:"inherited"`
	Effective             valueResponse     `json:"effective"`
	IsCustom              bool              `json:"isCustom"`
}

type staffServicesResponse struct {
	LocationID string                 `json:"locationId"`
	StaffID    string                 `json:"staffId"`
	Currency   currencyResponse       `json:"currency"`
	Filter     string                 `json:"filter"`
	Counts     reconciler.Counts      `json:"counts"`
	Services   []staffServiceResponse `json:"services"`
}

func toStaffServiceResponse(s reconciler.StaffService, c currency.Currency) staffServiceResponse {
	return staffServiceResponse{
		ServiceID:             s.ServiceID.String(),
		Name:                  s.Name,
		CategoryID:            optionalID(s.CategoryID),
		CanPerform:            s.CanPerform,
		CustomPriceMinor:      s.CustomPriceMinor,
		CustomDurationMinutes: s.CustomDurationMinutes,
		Inherited:             toInheritedResponse(s.Inherited(), c),
		Effective:             toValueResponse(s.Effective(), c),
		IsCustom:              s.IsCustom(),
	}
}

func toStaffServicesResponse(l *pricing.StaffListing) staffServicesResponse {
	resp := staffServicesResponse{
		LocationID: l.LocationID.String(),
		StaffID:    l.StaffID.String(),
		Currency:   toCurrencyResponse(l.Currency),
		Filter:     string(l.Filter),
		Counts:     l.Counts,
		Services:   make([]staffServiceResponse, 0, len(l.Rows)),
	}
	for _, s := range l.Rows {
		resp.Services = append(resp.Services, toStaffServiceResponse(s, l.Currency))
	}
	return resp
}

// --- Resolution ---

type resolutionResponse struct {
	ServiceID        string           `json:"serviceId"`
	LocationID       string           `json:"locationId"`
	StaffID          string           `json:"staffId"`
	Currency         currencyResponse `json:"currency"`
	Location         valueResponse    `json:"location"`
	Staff            valueResponse    `json:"staff"`
	LocationIsCustom bool             `json:"locationIsCustom"`
	StaffIsCustom    bool             `json:"staffIsCustom"`
	StaffEnabled     bool             `json:"staffEnabled"`
}

func toResolutionResponse(r *pricing.ResolutionResult) resolutionResponse {
	return resolutionResponse{
		ServiceID:        r.ServiceID.String(),
		LocationID:       r.LocationID.String(),
		StaffID:          r.StaffID.String(),
		Currency:         toCurrencyResponse(r.Currency),
		Location:         toValueResponse(r.Resolution.Location, r.Currency),
		Staff:            toValueResponse(r.Resolution.Staff, r.Currency),
		LocationIsCustom: r.Resolution.LocationIsCustom,
		StaffIsCustom:    r.Resolution.StaffIsCustom,
		StaffEnabled:     r.Resolution.StaffEnabled,
	}
}

// --- Editors ---

type editorRowResponse struct {
	ServiceID             string            `json:"serviceId"`
	Name                  string            `json:"name"`
	CanPerform            bool              `json:"canPerform"`
	CustomPriceMinor      *int64            `json:"customPriceMinor"`
	CustomDurationMinutes *int              `json:"customDurationMinutes"`
	PriceText             *string           `json:"priceText,omitempty"`
	DurationText          *string           `json:"durationText,omitempty"`
	Inherited             inheritedResponse `json:"inherited"`
	Effective             valueResponse     `json:"effective"`
	IsCustom              bool              `json:"isCustom"`
}

type editorResponse struct {
	SessionID          string              `json:"sessionId"`
	Kind               string              `json:"kind"`
	State              string              `json:"state"`
	LocationID         string              `json:"locationId"`
	StaffID            *string             `json:"staffId,omitempty"`
	ServiceID          *string             `json:"serviceId,omitempty"`
	Currency           currencyResponse    `json:"currency"`
	Filter             string              `json:"filter"`
	Dirty              bool                `json:"dirty"`
	CanSave            bool                `json:"canSave"`
	Counts             reconciler.Counts   `json:"counts"`
	Errors             []draft.FieldError  `json:"errors"`
	Rows               []editorRowResponse `json:"rows"`
	QuickPickDurations []int               `json:"quickPickDurations"`
	Rejected           *draft.FieldError   `json:"rejected,omitempty"`
}

func toEditorResponse(v *pricing.EditorView) editorResponse {
	resp := editorResponse{
		SessionID:          v.SessionID.String(),
		Kind:               string(v.Scope.Kind),
		State:              v.State.String(),
		LocationID:         v.Scope.LocationID.String(),
		StaffID:            nonNilID(v.Scope.StaffID),
		ServiceID:          nonNilID(v.Scope.ServiceID),
		Currency:           toCurrencyResponse(v.Currency),
		Filter:             string(v.Filter),
		Dirty:              v.Dirty,
		CanSave:            v.CanSave,
		Counts:             v.Counts,
		Errors:             v.Errors,
		Rows:               make([]editorRowResponse, 0, len(v.Rows)),
		QuickPickDurations: draft.QuickPickDurations,
	}
	if resp.Errors == nil {
		resp.Errors = []draft.FieldError{}
	}
	for _, r := range v.Rows {
		resp.Rows = append(resp.Rows, editorRowResponse{
			ServiceID:             r.ServiceID.String(),
			Name:                  r.Name,
			CanPerform:            r.CanPerform,
			CustomPriceMinor:      r.CustomPriceMinor,
			CustomDurationMinutes: r.CustomDurationMinutes,
			PriceText:             r.PriceText,
			DurationText:          r.DurationText,
			Inherited:             toInheritedResponse(r.Inherited, v.Currency),
			Effective:             toValueResponse(r.Effective, v.Currency),
			IsCustom:              r.IsCustom,
		})
	}
	return resp
}

type savedRowResponse struct {
	ServiceID             string `json:"serviceId"`
	CanPerform            *bool  `json:"canPerform,omitempty"`
	CustomPriceMinor      *int64 `json:"customPriceMinor"`
	CustomDurationMinutes *int   `json:"customDurationMinutes"`
}

type saveResponse struct {
	SessionID  string             `json:"sessionId"`
	Kind       string             `json:"kind"`
	LocationID string             `json:"locationId"`
	StaffID    *string            `json:"staffId,omitempty"`
	Rows       []savedRowResponse `json:"rows"`
}

func toSaveResponse(s *pricing.SaveResult) saveResponse {
	resp := saveResponse{
		SessionID:  s.SessionID.String(),
		Kind:       string(s.Scope.Kind),
		LocationID: s.Scope.LocationID.String(),
		StaffID:    nonNilID(s.Scope.StaffID),
		Rows:       make([]savedRowResponse, 0, len(s.Rows)),
	}
	for _, r := range s.Rows {
		row := savedRowResponse{
			ServiceID:             r.ServiceID.String(),
			CustomPriceMinor:      r.CustomPriceMinor,
			CustomDurationMinutes: r.CustomDurationMinutes,
		}
		if s.Scope.IsStaff() {
			enabled := r.CanPerform
			row.CanPerform = &enabled
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp
}
