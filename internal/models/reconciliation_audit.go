package models

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationAudit records one seat label that could not be matched to
// an authoritative manifest record at submission time. These entries exist
// so operators can detect manifest drift; writing them never blocks a
// booking.
type ReconciliationAudit struct {
	ID            uuid.UUID `json:"id" db:"id"`
	SessionID     uuid.UUID `json:"session_id" db:"session_id"`
	FlightID      int64     `json:"flight_id" db:"flight_id"`
	SeatName      string    `json:"seat_name" db:"seat_name"`
	ManifestSeats int       `json:"manifest_seats" db:"manifest_seats"`
	Reason        string    `json:"reason" db:"reason"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Reconciliation miss reasons.
const (
	ReconcileReasonEmptyManifest = "manifest_empty"
	ReconcileReasonNoMatch       = "no_matching_record"
)
