// internal/api/errors.go
package api

import (
	"net/http"

	"job-board/internal/common/errors"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Details string           `json:"details,omitempty"`
}

type errorResponse struct {
	Error      errorBody `json:"error"`
	RedirectTo string    `json:"redirectTo,omitempty"`
}

// abort writes err as the JSON error envelope. redirectTo is optional.
func (s *Server) abort(c *gin.Context, err error, redirectTo string) {
	stdErr := errors.AsStandardError(err)
	status := errors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"route":  c.FullPath(),
		"code":   string(stdErr.Code),
		"status": status,
	}
	body := errorBody{Code: stdErr.Code, Message: stdErr.Message}
	// Server failures carry driver and upstream text, which stays in the log.
	if status >= http.StatusInternalServerError {
		fields["details"] = stdErr.Details
		s.logger.Error("request failed", fields)
	} else {
		body.Details = stdErr.Details
		s.logger.Debug("request rejected", fields)
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: body, RedirectTo: redirectTo})
}

func (s *Server) notImplemented(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotImplemented, errorResponse{
		Error: errorBody{Code: "NOT_IMPLEMENTED", Message: "Operation not available"},
	})
}
