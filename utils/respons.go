package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta describes list payloads.
type Meta struct {
	Count int   `json:"count"`
	Total int64 `json:"total,omitempty"`
	Page  int   `json:"page,omitempty"`
	Pages int   `json:"pages,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondList(c *gin.Context, code int, message string, data interface{}, meta Meta) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
		Meta:    &meta,
	})
}

// RespondError maps err onto a status code. Unexpected errors are logged with
// their cause and answered with the generic message only.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Unexpected("Internal server error", err)
	}

	code := HTTPStatus(appErr.Kind)
	if appErr.Kind == KindUnexpected {
		ErrorLogger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(appErr.Err).Error(appErr.Message)
	}

	c.JSON(code, JSONResponse{
		Status:  false,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}
