package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"prompt-studio/internal/studio"
)

const clientIDHeader = "X-Client-ID"

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"dur_ms", time.Since(start).Milliseconds(),
			"owner", owner(c),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "err", c.Errors.String())
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("http", attrs...)
			return
		}
		logger.Info("http", attrs...)
	}
}

// owner identifies the caller for in-flight tracking and result ownership.
func owner(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(clientIDHeader)); id != "" {
		return "client:" + id
	}
	return "ip:" + c.ClientIP()
}

type apiError struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch studio.Kind(err) {
	case studio.KindValidation:
		return http.StatusBadRequest
	case studio.KindConflict:
		return http.StatusConflict
	case studio.KindNotFound:
		return http.StatusNotFound
	case studio.KindUpstream:
		return http.StatusBadGateway
	case studio.KindCanceled:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), apiError{Error: studio.UserMessage(err)})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, apiError{Error: message})
}
