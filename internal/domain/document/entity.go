// Package document models the document stream: files attached to cases.
// It owns the canonical flattening of upstream document records and the
// per-case roll-up consumed by the feature join.
package document

import (
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/dates"
)

const bytesPerMB = 1024.0 * 1024.0

// ─────────────────────────────────────────────────────────────────────────────
// Raw upstream shape
// ─────────────────────────────────────────────────────────────────────────────

// Raw mirrors one upstream document record. The upstream emits either a bare
// list of these or a {data:[...]} envelope; the upstream client resolves that
// once at the ingestion boundary.
type Raw struct {
	DocID     *string `json:"doc_id"`
	MongoID   *string `json:"_id"`
	Filename  *string `json:"filename"`
	Size      *int64  `json:"size"`
	ClientID  *int64  `json:"id_cliente"`
	CaseID    *int64  `json:"id_expediente"`
	CreatedAt *string `json:"created_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Entity
// ─────────────────────────────────────────────────────────────────────────────

// Document is the canonical flattened row. Filenames are percent-decoded and
// extensions lowercased; absent values stay nil until the feature join
// zero-fills.
type Document struct {
	ID        string
	Filename  string
	Ext       string
	SizeBytes int64
	SizeMB    float64
	ClientID  *int64
	CaseID    *int64
	CreatedAt *time.Time

	// Derived fields, computed against the per-request "now" reference.
	DaysSinceCreated *int
	NameLength       int
	IsPDF            int
}

// Flatten converts raw upstream records into canonical rows, computing every
// derived field against the single per-request now reference.
func Flatten(raws []Raw, now time.Time) []Document {
	rows := make([]Document, 0, len(raws))
	for _, r := range raws {
		d := Document{}
		switch {
		case r.DocID != nil:
			d.ID = *r.DocID
		case r.MongoID != nil:
			d.ID = *r.MongoID
		}
		if r.Filename != nil {
			name := strings.TrimSpace(*r.Filename)
			if decoded, err := url.QueryUnescape(name); err == nil {
				name = decoded
			}
			d.Filename = name
			if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
				d.Ext = strings.ToLower(name[i+1:])
			}
		}
		if r.Size != nil {
			d.SizeBytes = *r.Size
		}
		d.SizeMB = float64(d.SizeBytes) / bytesPerMB
		d.ClientID = r.ClientID
		d.CaseID = r.CaseID
		if r.CreatedAt != nil {
			if t, ok := dates.Parse(*r.CreatedAt); ok {
				d.CreatedAt = &t
			}
		}

		if d.CreatedAt != nil {
			days := dates.DaysBetween(*d.CreatedAt, now)
			d.DaysSinceCreated = &days
		}
		d.NameLength = len([]rune(d.Filename))
		if d.Ext == "pdf" {
			d.IsPDF = 1
		}

		rows = append(rows, d)
	}
	return rows
}
