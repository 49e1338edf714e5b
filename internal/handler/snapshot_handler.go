package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academics-api/internal/dto"
	"github.com/noah-isme/academics-api/internal/models"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
	"github.com/noah-isme/academics-api/pkg/response"
)

type snapshotService interface {
	List(ctx context.Context, filter models.SnapshotFilter) ([]models.Snapshot, error)
	Latest(ctx context.Context, regNo string, kind models.SnapshotKind) (*models.Snapshot, error)
}

// SnapshotHandler serves persisted decode snapshots.
type SnapshotHandler struct {
	service snapshotService
}

// NewSnapshotHandler constructs the handler.
func NewSnapshotHandler(svc snapshotService) *SnapshotHandler {
	return &SnapshotHandler{service: svc}
}

// List godoc
// @Summary List snapshots
// @Tags Snapshots
// @Produce json
// @Param regNo path string true "Registration number"
// @Param kind query string false "enrollment or grades"
// @Param limit query int false "Maximum results (default 20, max 100)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /snapshots/{regNo} [get]
func (h *SnapshotHandler) List(c *gin.Context) {
	var query dto.SnapshotListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	regNo := c.Param("regNo")
	snapshots, err := h.service.List(c.Request.Context(), query.Filter(regNo))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SnapshotListResponse{RegNo: regNo, Snapshots: snapshots}, nil)
}

// Latest godoc
// @Summary Latest snapshot
// @Description Returns the most recently refreshed snapshot of a kind, including the decoded document.
// @Tags Snapshots
// @Produce json
// @Param regNo path string true "Registration number"
// @Param kind query string false "enrollment (default) or grades"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /snapshots/{regNo}/latest [get]
func (h *SnapshotHandler) Latest(c *gin.Context) {
	var query dto.SnapshotLatestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	kind := models.SnapshotKind(query.Kind)
	if kind == "" {
		kind = models.SnapshotKindEnrollment
	}
	snapshot, err := h.service.Latest(c.Request.Context(), c.Param("regNo"), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}
