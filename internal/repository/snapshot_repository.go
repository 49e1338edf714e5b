package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academics-api/internal/models"
)

const defaultSnapshotLimit = 20

// SnapshotRepository persists decoded aggregates in academic_snapshots.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository constructs the repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Insert stores a snapshot. It reports false when a snapshot with the same
// registration number, kind and payload hash already exists.
func (r *SnapshotRepository) Insert(ctx context.Context, snapshot *models.Snapshot) (bool, error) {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO academic_snapshots (id, reg_no, kind, payload_hash, semester, total_credits, cgpa, document, refreshed_at, created_at)
VALUES (:id, :reg_no, :kind, :payload_hash, :semester, :total_credits, :cgpa, :document, :refreshed_at, :created_at)
ON CONFLICT (reg_no, kind, payload_hash) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, snapshot)
	if err != nil {
		return false, fmt.Errorf("insert snapshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert snapshot rows affected: %w", err)
	}
	return affected > 0, nil
}

// List returns snapshot summaries, newest first. Documents are not loaded.
func (r *SnapshotRepository) List(ctx context.Context, filter models.SnapshotFilter) ([]models.Snapshot, error) {
	conditions := []string{"reg_no = $1"}
	args := []interface{}{filter.RegNo}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSnapshotLimit
	}

	query := fmt.Sprintf(`SELECT id, reg_no, kind, payload_hash, semester, total_credits, cgpa, refreshed_at, created_at
FROM academic_snapshots WHERE %s ORDER BY refreshed_at DESC, created_at DESC LIMIT %d`, strings.Join(conditions, " AND "), limit)

	var snapshots []models.Snapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, args...); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snapshots, nil
}

// Latest returns the most recently refreshed snapshot of a kind, including
// its document. sql.ErrNoRows is wrapped when none exists.
func (r *SnapshotRepository) Latest(ctx context.Context, regNo string, kind models.SnapshotKind) (*models.Snapshot, error) {
	const query = `SELECT id, reg_no, kind, payload_hash, semester, total_credits, cgpa, document, refreshed_at, created_at
FROM academic_snapshots WHERE reg_no = $1 AND kind = $2 ORDER BY refreshed_at DESC, created_at DESC LIMIT 1`
	var snapshot models.Snapshot
	if err := r.db.GetContext(ctx, &snapshot, query, regNo, kind); err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &snapshot, nil
}
