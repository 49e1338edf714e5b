package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/academics-api/pkg/errors"
)

// readPayload returns the raw request body as text.
func readPayload(c *gin.Context) (string, error) {
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", appErrors.ErrPayloadTooLarge
		}
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read request body")
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "request body is required")
	}
	return string(raw), nil
}

// decodeFailure exposes the location of a decode failure in the error message.
func decodeFailure(err error) error {
	appErr := appErrors.FromError(err)
	if appErr.Status != http.StatusUnprocessableEntity {
		return err
	}
	return appErrors.Clone(appErr, err.Error())
}
