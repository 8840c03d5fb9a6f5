package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// ReconciliationAuditor persists manifest-drift records. Implemented by
// database.ReconciliationAuditRepository; nil disables persistence and
// misses are only logged.
type ReconciliationAuditor interface {
	Log(ctx context.Context, audit *models.ReconciliationAudit) error
}

// ReconcileService maps user-chosen seat labels back to backend seat ids
// immediately before the transaction payload is built. An unmatched label
// degrades to a nil id: the booking proceeds with the seat name alone and
// the transaction API decides whether to accept it. Every miss is logged,
// and persisted when an auditor is configured, so operators can detect a
// drifting or absent manifest; reconciliation never blocks submission.
type ReconcileService struct {
	auditor ReconciliationAuditor
	logger  *logrus.Logger
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(auditor ReconciliationAuditor, logger *logrus.Logger) *ReconcileService {
	return &ReconcileService{
		auditor: auditor,
		logger:  logger,
	}
}

// Reconcile resolves each passenger's seat name against the authoritative
// manifest using a case-insensitive, whitespace-trimmed match. The
// returned slice carries the resolved ids; the input is not mutated.
func (s *ReconcileService) Reconcile(ctx context.Context, sessionID uuid.UUID, flightID int64, passengers []models.Passenger, authoritative []models.Seat) []models.Passenger {
	byName := make(map[string]models.Seat, len(authoritative))
	for _, seat := range authoritative {
		byName[NormalizeSeatName(seat.Name)] = seat
	}

	enriched := make([]models.Passenger, len(passengers))
	for i, p := range passengers {
		enriched[i] = p
		target := NormalizeSeatName(p.SeatName)

		if seat, ok := byName[target]; ok && seat.ID != nil {
			id := *seat.ID
			enriched[i].SeatID = &id
			continue
		}

		enriched[i].SeatID = nil
		s.recordMiss(ctx, sessionID, flightID, target, len(authoritative))
	}
	return enriched
}

func (s *ReconcileService) recordMiss(ctx context.Context, sessionID uuid.UUID, flightID int64, seatName string, manifestSize int) {
	reason := models.ReconcileReasonNoMatch
	if manifestSize == 0 {
		reason = models.ReconcileReasonEmptyManifest
	}

	s.logger.WithFields(logrus.Fields{
		"session_id":     sessionID,
		"flight_id":      flightID,
		"seat_name":      seatName,
		"manifest_seats": manifestSize,
		"reason":         reason,
	}).Warn("Seat not found in manifest, submitting with nil seat id")

	if s.auditor == nil {
		return
	}
	audit := &models.ReconciliationAudit{
		ID:            uuid.New(),
		SessionID:     sessionID,
		FlightID:      flightID,
		SeatName:      seatName,
		ManifestSeats: manifestSize,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}
	if err := s.auditor.Log(ctx, audit); err != nil {
		// Audit persistence is observability only; a failed write must
		// never block the booking.
		s.logger.WithError(err).WithField("seat_name", seatName).Error("Failed to persist reconciliation audit")
	}
}
