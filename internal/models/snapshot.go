package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SnapshotKind names the decode operation that produced a snapshot.
type SnapshotKind string

const (
	SnapshotKindEnrollment   SnapshotKind = "enrollment"
	SnapshotKindGradeHistory SnapshotKind = "grades"
)

// Valid reports whether the kind is persisted by the snapshot store.
func (k SnapshotKind) Valid() bool {
	return k == SnapshotKindEnrollment || k == SnapshotKindGradeHistory
}

// Snapshot is a decoded aggregate persisted for later retrieval.
type Snapshot struct {
	ID           string         `db:"id" json:"id"`
	RegNo        string         `db:"reg_no" json:"reg_no"`
	Kind         SnapshotKind   `db:"kind" json:"kind"`
	PayloadHash  string         `db:"payload_hash" json:"payload_hash"`
	Semester     *string        `db:"semester" json:"semester,omitempty"`
	TotalCredits int            `db:"total_credits" json:"total_credits"`
	CGPA         *float64       `db:"cgpa" json:"cgpa,omitempty"`
	Document     types.JSONText `db:"document" json:"document,omitempty"`
	RefreshedAt  time.Time      `db:"refreshed_at" json:"refreshed_at"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// SnapshotFilter scopes snapshot listings.
type SnapshotFilter struct {
	RegNo string       `validate:"required"`
	Kind  SnapshotKind `validate:"omitempty,oneof=enrollment grades"`
	Limit int          `validate:"gte=0,lte=100"`
}
