package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// ReconciliationAuditRepository persists seat-reconciliation misses so
// operators can detect manifest drift between the seat manifests and the
// seats users actually book.
type ReconciliationAuditRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewReconciliationAuditRepository creates a new reconciliation audit repository
func NewReconciliationAuditRepository(db *sqlx.DB, logger *logrus.Logger) *ReconciliationAuditRepository {
	return &ReconciliationAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Log creates a new reconciliation audit entry. Failures are reported to
// the caller but must never block a submission.
func (r *ReconciliationAuditRepository) Log(ctx context.Context, audit *models.ReconciliationAudit) error {
	if audit == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}

	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO reconciliation_audits (
			id, session_id, flight_id, seat_name,
			manifest_seats, reason, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7
		)`

	_, err := r.db.ExecContext(ctx, query,
		audit.ID, audit.SessionID, audit.FlightID, audit.SeatName,
		audit.ManifestSeats, audit.Reason, audit.CreatedAt,
	)

	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"flight_id": audit.FlightID,
			"seat_name": audit.SeatName,
		}).Error("Failed to log reconciliation audit")
		return fmt.Errorf("failed to log reconciliation audit: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"audit_id":  audit.ID,
		"flight_id": audit.FlightID,
		"seat_name": audit.SeatName,
	}).Debug("Reconciliation audit logged")

	return nil
}

// GetByFlightID retrieves all audit entries for a flight, oldest first.
func (r *ReconciliationAuditRepository) GetByFlightID(ctx context.Context, flightID int64) ([]*models.ReconciliationAudit, error) {
	var audits []*models.ReconciliationAudit
	query := `
		SELECT * FROM reconciliation_audits
		WHERE flight_id = $1
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &audits, query, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audits by flight ID: %w", err)
	}

	return audits, nil
}

// GetRecent retrieves the most recent audit entries across all flights,
// the drift signal an operator looks at first.
func (r *ReconciliationAuditRepository) GetRecent(ctx context.Context, hours int, limit int) ([]*models.ReconciliationAudit, error) {
	var audits []*models.ReconciliationAudit
	query := `
		SELECT * FROM reconciliation_audits
		WHERE created_at > NOW() - INTERVAL '1 hour' * $1
		ORDER BY created_at DESC
		LIMIT $2`

	err := r.db.SelectContext(ctx, &audits, query, hours, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent audits: %w", err)
	}

	return audits, nil
}
