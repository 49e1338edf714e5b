package dto

import "github.com/noah-isme/academics-api/internal/models"

// ExportQuery selects the export dataset and file format.
type ExportQuery struct {
	Kind   string `form:"kind"`
	Format string `form:"format"`
	RegNo  string `form:"regNo"`
}

// Request converts the query into a service request.
func (q ExportQuery) Request() models.ExportRequest {
	return models.ExportRequest{Kind: models.ExportKind(q.Kind), Format: models.ExportFormat(q.Format)}
}

// ExportDownloadQuery carries a signed download token.
type ExportDownloadQuery struct {
	Token string `form:"token" binding:"required"`
}
