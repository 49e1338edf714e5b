package dto

import "github.com/noah-isme/academics-api/internal/models"

// StatusResponse reports the decoded status object of a payload.
type StatusResponse struct {
	Status   models.StatusCode `json:"status"`
	CodeName string            `json:"code_name"`
	Success  bool              `json:"success"`
}

// NewStatusResponse builds the response for a decoded status.
func NewStatusResponse(status models.StatusCode) StatusResponse {
	return StatusResponse{Status: status, CodeName: status.String(), Success: status == models.StatusSuccess}
}

// GradesQuery carries the optional owner of a grade history payload.
type GradesQuery struct {
	RegNo string `form:"regNo"`
}

// ContributorsResponse wraps the decoded contributor list.
type ContributorsResponse struct {
	Contributors []models.Contributor `json:"contributors"`
	Count        int                  `json:"count"`
}
