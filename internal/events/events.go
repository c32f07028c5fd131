// Package events publishes committed override changes for downstream consumers
// such as marketplace listing sync.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CommittedRow is the outbound shape of one saved override row. CanPerform is
// omitted for location-level rows.
type CommittedRow struct {
	ServiceID             uuid.UUID `json:"serviceId"`
	CanPerform            *bool     `json:"canPerform,omitempty"`
	CustomPriceMinor      *int64    `json:"customPriceMinor"`
	CustomDurationMinutes *int      `json:"customDurationMinutes"`
}

// OverridesCommitted is emitted after an editor save has been persisted.
type OverridesCommitted struct {
	EventID     uuid.UUID      `json:"eventId"`
	Kind        string         `json:"kind"`
	LocationID  uuid.UUID      `json:"locationId"`
	StaffID     *uuid.UUID     `json:"staffId,omitempty"`
	Rows        []CommittedRow `json:"rows"`
	CommittedAt time.Time      `json:"committedAt"`
}

// Publisher delivers commit events.
type Publisher interface {
	PublishCommitted(ctx context.Context, e OverridesCommitted) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) PublishCommitted(context.Context, OverridesCommitted) error { return nil }
