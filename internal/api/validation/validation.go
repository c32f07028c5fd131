package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/draft"
	"github.com/pricebook/pricebook/internal/pricing"
	"github.com/pricebook/pricebook/internal/reconciler"
)

// FieldError represents a single field validation error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	// OpMessage is the error message for an unsupported edit op.
	OpMessage = fmt.Sprintf("op must be one of: %s", joinOps(pricing.Ops))
	// QuickPickMessage is the error message for a minutes value outside the quick picks.
	QuickPickMessage = fmt.Sprintf("minutes must be one of: %s", joinInts(draft.QuickPickDurations))
)

var validOps = func() map[pricing.Op]bool {
	m := make(map[pricing.Op]bool, len(pricing.Ops))
	for _, op := range pricing.Ops {
		m[op] = true
	}
	return m
}()

// EditRequest mirrors the fields of an editor PATCH body.
type EditRequest struct {
	Op        string
	ServiceID *string
	Text      *string
	Minutes   *int
	Enabled   *bool
}

// ValidateEditRequest checks that the request names a supported op and carries
// the argument that op needs. Price and duration text is validated by the
// editor itself.
func ValidateEditRequest(req EditRequest) []FieldError {
	var errs []FieldError

	op := pricing.Op(strings.TrimSpace(req.Op))
	if op == "" {
		errs = append(errs, FieldError{Field: "op", Message: "op is required"})
	} else if !validOps[op] {
		errs = append(errs, FieldError{Field: "op", Message: OpMessage})
	}

	if req.ServiceID != nil {
		if _, err := uuid.Parse(*req.ServiceID); err != nil {
			errs = append(errs, FieldError{Field: "serviceId", Message: "serviceId must be a valid UUID"})
		}
	}

	switch op {
	case pricing.OpSetPrice, pricing.OpSetDuration:
		if req.Text == nil {
			errs = append(errs, FieldError{Field: "text", Message: fmt.Sprintf("text is required for %s", op)})
		}
	case pricing.OpPickDuration:
		if req.Minutes == nil {
			errs = append(errs, FieldError{Field: "minutes", Message: "minutes is required for pick_duration"})
		} else if !isQuickPick(*req.Minutes) {
			errs = append(errs, FieldError{Field: "minutes", Message: QuickPickMessage})
		}
	case pricing.OpSetCanPerform:
		if req.Enabled == nil {
			errs = append(errs, FieldError{Field: "enabled", Message: "enabled is required for set_can_perform"})
		}
	}

	return errs
}

// ValidateFilter parses a staff service filter. Empty means all.
func ValidateFilter(s string) (reconciler.Filter, []FieldError) {
	f, err := reconciler.ParseFilter(strings.TrimSpace(s))
	if err != nil {
		return "", []FieldError{{Field: "filter", Message: "filter must be one of: \"all\", \"custom\", \"enabled\""}}
	}
	return f, nil
}

func isQuickPick(minutes int) bool {
	for _, m := range draft.QuickPickDurations {
		if m == minutes {
			return true
		}
	}
	return false
}

func joinOps(ops []pricing.Op) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = strconv.Quote(string(op))
	}
	return strings.Join(parts, ", ")
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
