package snapshots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/db"
	"github.com/carverauto/activityradar/pkg/models"
)

const (
	upsertSnapshotSQL = `
INSERT INTO activity_snapshots (
    service_id, receives_traffic, traffic_volume, last_seen,
    active_callers, confidence_level, classification, snapshot_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (service_id) DO UPDATE SET
    receives_traffic = EXCLUDED.receives_traffic,
    traffic_volume   = EXCLUDED.traffic_volume,
    last_seen        = EXCLUDED.last_seen,
    active_callers   = EXCLUDED.active_callers,
    confidence_level = EXCLUDED.confidence_level,
    classification   = EXCLUDED.classification,
    snapshot_date    = EXCLUDED.snapshot_date`

	selectSnapshotSQL = `
SELECT service_id, receives_traffic, traffic_volume, last_seen,
       active_callers, confidence_level, classification, snapshot_date
FROM activity_snapshots
WHERE service_id = $1`
)

// PgxQuerier is the subset of *pgxpool.Pool used by PostgresStore.
type PgxQuerier interface {
	db.BatchSender
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore upserts snapshots into the activity_snapshots table.
type PostgresStore struct {
	conn PgxQuerier
}

var (
	_ consolidation.Publisher = (*PostgresStore)(nil)
	_ Reader                  = (*PostgresStore)(nil)
)

func NewPostgresStore(conn PgxQuerier) *PostgresStore {
	return &PostgresStore{conn: conn}
}

// Publish writes all snapshots in one batch.
func (s *PostgresStore) Publish(ctx context.Context, snapshots []models.Snapshot) error {
	batch := &pgx.Batch{}

	for i := range snapshots {
		snap := &snapshots[i]

		if snap.ServiceID == "" {
			return models.ErrMissingServiceID
		}

		date, err := snap.SnapshotDate.Time()
		if err != nil {
			return fmt.Errorf("invalid snapshot date for %s: %w", snap.ServiceID, err)
		}

		callers := snap.ActiveCallers
		if callers == nil {
			callers = []string{}
		}

		batch.Queue(upsertSnapshotSQL,
			snap.ServiceID,
			snap.ReceivesTraffic,
			snap.TrafficVolume,
			snap.LastSeen.UTC(),
			callers,
			string(snap.ConfidenceLevel),
			string(snap.Classification),
			date,
		)
	}

	return db.SendBatchExecAll(ctx, s.conn, batch, "snapshot upsert")
}

// Get returns the stored snapshot of serviceID.
func (s *PostgresStore) Get(ctx context.Context, serviceID string) (*models.Snapshot, error) {
	var (
		snap           models.Snapshot
		confidence     string
		classification string
		date           time.Time
	)

	err := s.conn.QueryRow(ctx, selectSnapshotSQL, serviceID).Scan(
		&snap.ServiceID,
		&snap.ReceivesTraffic,
		&snap.TrafficVolume,
		&snap.LastSeen,
		&snap.ActiveCallers,
		&confidence,
		&classification,
		&date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot for %s: %w", serviceID, err)
	}

	snap.LastSeen = snap.LastSeen.UTC()
	snap.ConfidenceLevel = models.ConfidenceLevel(confidence)
	snap.Classification = models.Classification(classification)
	snap.SnapshotDate = models.DateOf(date)

	if snap.ActiveCallers == nil {
		snap.ActiveCallers = []string{}
	}

	return &snap, nil
}
