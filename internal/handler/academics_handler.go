package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academics-api/internal/dto"
	"github.com/noah-isme/academics-api/internal/middleware"
	"github.com/noah-isme/academics-api/internal/models"
	"github.com/noah-isme/academics-api/internal/service"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
	"github.com/noah-isme/academics-api/pkg/response"
)

type academicsService interface {
	Status(ctx context.Context, payload string) models.StatusCode
	BareUser(ctx context.Context, payload string) (*models.User, service.DecodeMeta, error)
	Enrollment(ctx context.Context, payload string) (*models.User, service.DecodeMeta, error)
	GradeHistory(ctx context.Context, payload, regNo string) (*models.AcademicHistory, service.DecodeMeta, error)
	Advisor(ctx context.Context, payload string) (*models.FacultyAdvisor, service.DecodeMeta, error)
	Contributors(ctx context.Context, payload string) ([]models.Contributor, service.DecodeMeta, error)
}

// AcademicsHandler exposes the decode operations over HTTP. Every route takes
// the raw student information system JSON as request body.
type AcademicsHandler struct {
	service academicsService
}

// NewAcademicsHandler constructs the handler.
func NewAcademicsHandler(svc academicsService) *AcademicsHandler {
	return &AcademicsHandler{service: svc}
}

// Status godoc
// @Summary Decode response status
// @Description Maps the status object of a payload. Malformed payloads yield INVALID_DATA.
// @Tags Decode
// @Accept json
// @Produce json
// @Param payload body object true "Raw payload"
// @Success 200 {object} response.Envelope
// @Router /decode/status [post]
func (h *AcademicsHandler) Status(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := h.service.Status(c.Request.Context(), payload)
	response.JSON(c, http.StatusOK, dto.NewStatusResponse(status), nil)
}

// User godoc
// @Summary Decode payload owner
// @Tags Decode
// @Accept json
// @Produce json
// @Param payload body object true "Raw payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /decode/user [post]
func (h *AcademicsHandler) User(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	user, meta, err := h.service.BareUser(c.Request.Context(), payload)
	respondDecoded(c, user, meta, err)
}

// Enrollment godoc
// @Summary Decode enrollment
// @Description Decodes the owner, enrolled courses and course metadata. Courses of an unknown type are skipped.
// @Tags Decode
// @Accept json
// @Produce json
// @Param payload body object true "Raw payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /decode/enrollment [post]
func (h *AcademicsHandler) Enrollment(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	user, meta, err := h.service.Enrollment(c.Request.Context(), payload)
	respondDecoded(c, user, meta, err)
}

// Grades godoc
// @Summary Decode grade history
// @Tags Decode
// @Accept json
// @Produce json
// @Param regNo query string false "Owner registration number, enables snapshot persistence"
// @Param payload body object true "Raw payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /decode/grades [post]
func (h *AcademicsHandler) Grades(c *gin.Context) {
	var query dto.GradesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	payload, err := readPayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	history, meta, err := h.service.GradeHistory(c.Request.Context(), payload, query.RegNo)
	respondDecoded(c, history, meta, err)
}

// Advisor godoc
// @Summary Decode faculty advisor
// @Tags Decode
// @Accept json
// @Produce json
// @Param payload body object true "Raw payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /decode/advisor [post]
func (h *AcademicsHandler) Advisor(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	advisor, meta, err := h.service.Advisor(c.Request.Context(), payload)
	respondDecoded(c, advisor, meta, err)
}

// Contributors godoc
// @Summary Decode contributors
// @Tags Decode
// @Accept json
// @Produce json
// @Param payload body object true "Raw payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /decode/contributors [post]
func (h *AcademicsHandler) Contributors(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	contributors, meta, err := h.service.Contributors(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, decodeFailure(err))
		return
	}
	respondDecoded(c, dto.ContributorsResponse{Contributors: contributors, Count: len(contributors)}, meta, nil)
}

func respondDecoded(c *gin.Context, data interface{}, meta service.DecodeMeta, err error) {
	if err != nil {
		response.Error(c, decodeFailure(err))
		return
	}
	middleware.SetCacheHit(c, meta.CacheHit)
	middleware.SetPayloadHash(c, meta.PayloadHash)
	response.JSON(c, http.StatusOK, data, nil, middleware.ExtractMeta(c))
}
