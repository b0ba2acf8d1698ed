package middleware

import (
	"log/slog"
	"net/http"

	"sanatorium-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last public error recorded by httperr when a
// handler aborted without writing a body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			if !c.Errors[i].IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := c.Errors[i].Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if len(c.Errors) == 0 {
			return
		}
		slog.Error("unhandled handler error", "error", c.Errors.Last().Error(), "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, internalError())
	}
}

// CustomRecovery turns a panic into the standard internal error body.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("recovered from panic",
					"panic", rec,
					"method", c.Request.Method,
					"path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalError())
			}
		}()
		c.Next()
	}
}

func internalError() httperr.Response {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Code = "internal"
	resp.Error.Message = "Internal server error"
	return resp
}
