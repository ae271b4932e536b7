package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/report"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error         string             `json:"error"`
	Message       string             `json:"message"`
	Code          int                `json:"code"`
	CorrelationID string             `json:"correlation_id"` // matches the server log line
	Fields        report.FieldErrors `json:"fields,omitempty"`
}

// NewErrorResponse creates an API error response.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
		Fields:        report.Fields(err),
	}
}

func generateCorrelationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// statusFor maps an error category to an HTTP status.
func statusFor(err error) int {
	var ee *errors.EnhancedError
	if !errors.As(err, &ee) {
		return http.StatusInternalServerError
	}
	switch ee.Category {
	case errors.CategoryValidation:
		return http.StatusBadRequest
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryFetch, errors.CategoryFormat, errors.CategorySubmission, errors.CategoryMQTTConnect, errors.CategoryMQTTPublish:
		return http.StatusBadGateway
	case errors.CategoryState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleError logs err with a correlation id and writes the error response.
func (s *Server) HandleError(c echo.Context, err error, message string, code int) error {
	resp := NewErrorResponse(err, message, code)

	log := s.log.WithContext(c.Request().Context())
	fields := []logger.Field{
		logger.String("correlation_id", resp.CorrelationID),
		logger.String("path", c.Request().URL.Path),
		logger.String("method", c.Request().Method),
		logger.Int("code", code),
		logger.Error(err),
	}
	if code >= http.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Debug(message, fields...)
	}

	return c.JSON(code, resp)
}
