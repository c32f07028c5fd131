package reconciler

import (
	"errors"
	"strings"
)

// ErrUnknownFilter is returned by ParseFilter for unsupported filter names.
var ErrUnknownFilter = errors.New("unknown filter")

// Filter selects which drawer rows are shown.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterEnabled Filter = "enabled"
	FilterCustom  Filter = "custom"
)

// ParseFilter parses a filter name; empty means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterEnabled, FilterCustom:
		return f, nil
	}
	return "", ErrUnknownFilter
}

// Apply returns the rows matching f, preserving order.
func (f Filter) Apply(rows []StaffService) []StaffService {
	out := make([]StaffService, 0, len(rows))
	for _, r := range rows {
		switch f {
		case FilterEnabled:
			if !r.CanPerform {
				continue
			}
		case FilterCustom:
			if !r.IsCustom() {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Counts holds the totals shown on the drawer's filter tabs.
type Counts struct {
	Total   int `json:"total"`
	Enabled int `json:"enabled"`
	Custom  int `json:"custom"`
}

// Count tallies rows. Disabled rows never count as custom.
func Count(rows []StaffService) Counts {
	c := Counts{Total: len(rows)}
	for _, r := range rows {
		if r.CanPerform {
			c.Enabled++
		}
		if r.IsCustom() {
			c.Custom++
		}
	}
	return c
}
