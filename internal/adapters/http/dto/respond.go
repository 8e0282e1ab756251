package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
	"github.com/jsamuelsen/insurance-quote-service/internal/platform/logging"
)

const internalErrorMessage = "an internal error occurred"

// GetTraceID returns the trace ID of the active span, or "" when the request is not traced.
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// MapError maps an error to an HTTP status code and error envelope.
// Unknown errors are mapped to 500 with a generic message.
func MapError(err error) (int, *ErrorResponse) {
	var (
		domainErr *domain.ValidationError
		maxBytes  *http.MaxBytesError
	)

	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, NewErrorResponse(ErrorCodeTooLarge, "request body too large")

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, "request timeout exceeded")

	case errors.Is(err, ErrBinding):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeBadRequest, "malformed request body")

	case IsValidationError(err):
		return http.StatusBadRequest, NewErrorResponseWithDetails(
			ErrorCodeValidation,
			"request validation failed",
			ValidationErrors(err),
		)

	case errors.As(err, &domainErr):
		resp := NewErrorResponse(ErrorCodeValidation, domainErr.Error())
		if domainErr.Field != "" {
			resp.Error.Details = map[string]string{domainErr.Field: domainErr.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsValidation(err):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, err.Error())

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, internalErrorMessage)
	}
}

// HandleError writes the error envelope for err, tagged with the trace ID.
// Internal errors are logged with full details; the response stays generic.
func HandleError(c *gin.Context, err error) {
	status, resp := MapError(err)
	resp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			slog.String("error", err.Error()),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.JSON(status, resp)
}

// AbortWithCode aborts the handler chain with an envelope for code.
func AbortWithCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))

	if c.Writer.Written() {
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(HTTPStatusFromCode(code), resp)
}
