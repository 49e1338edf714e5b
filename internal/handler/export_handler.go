package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academics-api/internal/dto"
	"github.com/noah-isme/academics-api/internal/models"
	"github.com/noah-isme/academics-api/internal/service"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
	"github.com/noah-isme/academics-api/pkg/response"
)

type exportService interface {
	Generate(ctx context.Context, req models.ExportRequest, payload, regNo string) (*models.ExportResult, error)
	Resolve(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportHandler renders decoded payloads into downloadable files.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Create godoc
// @Summary Generate export
// @Description Decodes the payload and stores a timetable, attendance or grades file. The response carries a signed download link.
// @Tags Exports
// @Accept json
// @Produce json
// @Param kind query string true "timetable, attendance or grades"
// @Param format query string true "ics, xlsx, csv or pdf"
// @Param regNo query string false "Owner of a grades payload"
// @Param payload body object true "Raw enrollment or grades payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	payload, err := readPayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Generate(c.Request.Context(), query.Request(), payload, query.RegNo)
	if err != nil {
		response.Error(c, decodeFailure(err))
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download export
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	var query dto.ExportDownloadQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "token is required"))
		return
	}
	download, err := h.service.Resolve(c.Request.Context(), query.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, download.Filename, download.ContentType, download.Data)
}
