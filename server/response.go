package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/logger"
)

// RespondWithError writes err as the error envelope. AppErrors keep their
// status; anything else becomes a 500. Causes of 5xx errors are logged,
// never returned.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		fields := logger.Fields(
			"code", string(appErr.Code),
			"path", c.Request.URL.Path,
		)
		if appErr.Cause != nil {
			fields[logger.FieldError] = appErr.Cause.Error()
		}
		logger.WithContext(c.Request.Context()).Error("Request failed", fields)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 with body as-is.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// RespondCreated sends a 201 with body as-is.
func RespondCreated(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}
