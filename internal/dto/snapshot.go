package dto

import "github.com/noah-isme/academics-api/internal/models"

// SnapshotListQuery filters snapshot listings.
type SnapshotListQuery struct {
	Kind  string `form:"kind"`
	Limit int    `form:"limit"`
}

// Filter converts the query into a repository filter for regNo.
func (q SnapshotListQuery) Filter(regNo string) models.SnapshotFilter {
	return models.SnapshotFilter{RegNo: regNo, Kind: models.SnapshotKind(q.Kind), Limit: q.Limit}
}

// SnapshotLatestQuery selects the snapshot kind to load.
type SnapshotLatestQuery struct {
	Kind string `form:"kind"`
}

// SnapshotListResponse wraps snapshot summaries.
type SnapshotListResponse struct {
	RegNo     string            `json:"reg_no"`
	Snapshots []models.Snapshot `json:"snapshots"`
}
