package database

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

func newMockRepo(t *testing.T) (*ReconciliationAuditRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewReconciliationAuditRepository(sqlx.NewDb(db, "sqlmock"), logger), mock
}

func TestLogAudit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		audit := &models.ReconciliationAudit{
			SessionID:     uuid.New(),
			FlightID:      77,
			SeatName:      "5A",
			ManifestSeats: 0,
			Reason:        models.ReconcileReasonEmptyManifest,
		}

		mock.ExpectExec("INSERT INTO reconciliation_audits").
			WithArgs(sqlmock.AnyArg(), audit.SessionID, audit.FlightID, audit.SeatName,
				audit.ManifestSeats, audit.Reason, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Log(context.Background(), audit)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, audit.ID)
		assert.False(t, audit.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NilAudit", func(t *testing.T) {
		repo, _ := newMockRepo(t)
		assert.Error(t, repo.Log(context.Background(), nil))
	})

	t.Run("ExistingIDPreserved", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		id := uuid.New()
		audit := &models.ReconciliationAudit{
			ID:        id,
			SessionID: uuid.New(),
			FlightID:  77,
			SeatName:  "9F",
			Reason:    models.ReconcileReasonNoMatch,
			CreatedAt: time.Now(),
		}

		mock.ExpectExec("INSERT INTO reconciliation_audits").
			WithArgs(id, audit.SessionID, audit.FlightID, audit.SeatName,
				audit.ManifestSeats, audit.Reason, audit.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Log(context.Background(), audit))
		assert.Equal(t, id, audit.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByFlightID(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "session_id", "flight_id", "seat_name", "manifest_seats", "reason", "created_at",
	}).
		AddRow(uuid.New(), uuid.New(), int64(77), "5A", 0, models.ReconcileReasonEmptyManifest, now).
		AddRow(uuid.New(), uuid.New(), int64(77), "5B", 12, models.ReconcileReasonNoMatch, now)

	mock.ExpectQuery("SELECT \\* FROM reconciliation_audits").
		WithArgs(int64(77)).
		WillReturnRows(rows)

	audits, err := repo.GetByFlightID(context.Background(), 77)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, "5A", audits[0].SeatName)
	assert.Equal(t, models.ReconcileReasonNoMatch, audits[1].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecent(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{
		"id", "session_id", "flight_id", "seat_name", "manifest_seats", "reason", "created_at",
	}).AddRow(uuid.New(), uuid.New(), int64(12), "3C", 54, models.ReconcileReasonNoMatch, time.Now())

	mock.ExpectQuery("SELECT \\* FROM reconciliation_audits").
		WithArgs(24, 100).
		WillReturnRows(rows)

	audits, err := repo.GetRecent(context.Background(), 24, 100)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, int64(12), audits[0].FlightID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
