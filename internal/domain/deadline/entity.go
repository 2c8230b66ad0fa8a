// Package deadline models the deadline ("plazo") stream: obligations tied to
// legal/administrative cases, with a due instant and completion state. The
// package owns the canonical flattening of the upstream JSON shape into
// entities with derived per-row fields.
package deadline

import (
	"strings"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/dates"
)

// openCaseState is the upstream marker for a case still in progress.
const openCaseState = "ABIERTO"

// ─────────────────────────────────────────────────────────────────────────────
// Raw upstream shape
// ─────────────────────────────────────────────────────────────────────────────

// RawPayload is the envelope served by the deadline upstream.
type RawPayload struct {
	Data []RawDeadline `json:"data"`
}

// RawDeadline mirrors one item of the upstream payload. Every field except
// the id is optional in practice; the flattener tolerates all of them being
// absent.
type RawDeadline struct {
	ID            int64      `json:"id_plazo"`
	Description   *string    `json:"descripcion"`
	DueAt         *string    `json:"fecha_vencimiento"`
	Fulfilled     bool       `json:"cumplido"`
	FulfilledAt   *string    `json:"fecha_cumplimiento"`
	Case          *RawCase   `json:"expediente"`
}

// RawCase is the denormalized case record nested inside a raw deadline.
type RawCase struct {
	ID     *int64     `json:"id_expediente"`
	State  *string    `json:"estado"`
	Title  *string    `json:"titulo"`
	Client *RawClient `json:"cliente"`
}

// RawClient is the client record nested inside a raw case.
type RawClient struct {
	FullName *string `json:"nombre_completo"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Entity
// ─────────────────────────────────────────────────────────────────────────────

// Deadline is the canonical flattened row. Date fields live on the naive
// timeline (see the dates package); absent values are nil, never a zero
// sentinel — the single zero-fill point is the feature join stage.
type Deadline struct {
	ID          int64
	Description string
	DueAt       *time.Time
	Fulfilled   bool
	FulfilledAt *time.Time
	CaseID      *int64
	CaseState   string
	CaseTitle   string
	ClientName  string

	// Derived fields, computed against the per-request "now" reference.
	DaysToDue         *int
	DescriptionLength int
	CaseOpenFlag      int
	OverdueNow        bool
}

// Flatten converts the raw upstream payload into canonical rows, computing
// every derived field against the single per-request now reference.
func Flatten(payload RawPayload, now time.Time) []Deadline {
	rows := make([]Deadline, 0, len(payload.Data))
	for _, item := range payload.Data {
		d := Deadline{
			ID:        item.ID,
			Fulfilled: item.Fulfilled,
		}
		if item.Description != nil {
			d.Description = strings.TrimSpace(*item.Description)
		}
		if item.DueAt != nil {
			if t, ok := dates.Parse(*item.DueAt); ok {
				d.DueAt = &t
			}
		}
		if item.FulfilledAt != nil {
			if t, ok := dates.Parse(*item.FulfilledAt); ok {
				d.FulfilledAt = &t
			}
		}
		if c := item.Case; c != nil {
			d.CaseID = c.ID
			if c.State != nil {
				d.CaseState = strings.ToUpper(strings.TrimSpace(*c.State))
			}
			if c.Title != nil {
				d.CaseTitle = *c.Title
			}
			if c.Client != nil && c.Client.FullName != nil {
				d.ClientName = *c.Client.FullName
			}
		}

		if d.DueAt != nil {
			days := dates.DaysBetween(now, *d.DueAt)
			d.DaysToDue = &days
		}
		d.DescriptionLength = len([]rune(d.Description))
		if d.CaseState == openCaseState {
			d.CaseOpenFlag = 1
		}
		d.OverdueNow = d.DaysToDue != nil && *d.DaysToDue < 0 && !d.Fulfilled

		rows = append(rows, d)
	}
	return rows
}
