package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/pkg/logger"
)

// Error page templates
const (
	NotFoundTemplate = "not_found.html"
	ErrorTemplate    = "error.html"
)

// HandleError renders the error page matching err
func HandleError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.HTML(http.StatusNotFound, NotFoundTemplate, errorPage(c, "Page not found",
			"The page you are looking for does not exist."))
	case errors.Is(err, apperrors.ErrCSRFTokenMismatch):
		c.HTML(http.StatusForbidden, ErrorTemplate, errorPage(c, "Forbidden",
			"The form could not be verified. Reload the page and try again."))
	case errors.Is(err, apperrors.ErrBadRequest):
		c.HTML(http.StatusBadRequest, ErrorTemplate, errorPage(c, "Bad request", err.Error()))
	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		c.HTML(http.StatusInternalServerError, ErrorTemplate, errorPage(c, "Server error",
			"Something went wrong. Please try again later."))
	}
}

func errorPage(c *gin.Context, title, message string) gin.H {
	data := gin.H{
		"Title":   title,
		"Message": message,
	}
	if identity, ok := GetIdentity(c); ok {
		data["User"] = identity
	}
	return data
}

// NotFound is the fallback handler for unknown paths
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleError(c, apperrors.ErrResourceNotFound)
	}
}

// Recovery turns panics into the server error page
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("panic", fmt.Sprint(recovered)).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		HandleError(c, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}
