package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func validRequest() QuoteRequest {
	return QuoteRequest{
		DateOfBirth: "1990-01-02",
		CarYear:     2010,
		CarMake:     "Honda",
		CarModel:    "Civic",
	}
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{ErrorCodeTooLarge, http.StatusRequestEntityTooLarge},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed",
		map[string]string{"carYear": "must be greater than 0"}).WithTraceID("abc")

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "request validation failed",
			"details": {"carYear": "must be greater than 0"}
		},
		"traceId": "abc"
	}`, string(b))

	b, err = json.Marshal(NewErrorResponse(ErrorCodeInternal, "an internal error occurred"))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "details")
	assert.NotContains(t, string(b), "traceId")
}

func TestQuoteRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*QuoteRequest)
		field   string
		message string
	}{
		{"valid", func(*QuoteRequest) {}, "", ""},
		{"missing dob", func(r *QuoteRequest) { r.DateOfBirth = "" }, "dateOfBirth", "this field is required"},
		{"bad dob format", func(r *QuoteRequest) { r.DateOfBirth = "1990/01/02" }, "dateOfBirth", "must be a date in YYYY-MM-DD format"},
		{"zero car year", func(r *QuoteRequest) { r.CarYear = 0 }, "carYear", "this field is required"},
		{"negative car year", func(r *QuoteRequest) { r.CarYear = -5 }, "carYear", "must be greater than 0"},
		{"blank make", func(r *QuoteRequest) { r.CarMake = "  " }, "carMake", "must not be blank"},
		{"long model", func(r *QuoteRequest) { r.CarModel = strings.Repeat("x", 65) }, "carModel", "must be at most 64 characters"},
		{"negative tickets", func(r *QuoteRequest) { r.SpeedingTickets = -1 }, "speedingTickets", "must be greater than or equal to 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(&req)

			err := Validate(&req)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			require.ErrorIs(t, err, ErrValidation)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, tt.message, ValidationErrors(err)[tt.field])
		})
	}
}

func TestQuoteRequest_ToPerson(t *testing.T) {
	req := validRequest()
	req.SpeedingTickets = 2
	req.HasDUI = true
	req.HasFullCoverage = true

	p, err := req.ToPerson()
	require.NoError(t, err)

	assert.Equal(t, domain.Person{
		DateOfBirth:     time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		CarYear:         2010,
		CarMake:         "Honda",
		CarModel:        "Civic",
		SpeedingTickets: 2,
		HasDUI:          true,
		HasFullCoverage: true,
	}, p)
}

func TestQuoteRequest_ToPerson_InvalidDate(t *testing.T) {
	req := validRequest()
	req.DateOfBirth = "1990-02-30"

	_, err := req.ToPerson()
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestNewQuoteResponse(t *testing.T) {
	q := &domain.Quote{
		Amount: decimal.RequireFromString("440.62"),
		Exact:  decimal.RequireFromString("440.625"),
		Breakdown: []domain.Adjustment{
			{Stage: "coverage", Before: decimal.RequireFromString("293.75"), After: decimal.RequireFromString("440.625")},
		},
		ComputedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(NewQuoteResponse(q, "USD"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"amount": "440.62",
		"exact": "440.625",
		"currency": "USD",
		"breakdown": [{"stage": "coverage", "before": "293.75", "after": "440.625"}],
		"computedAt": "2024-06-01T12:00:00Z"
	}`, string(b))
}

func TestNewQuoteResponse_EmptyBreakdownIsArray(t *testing.T) {
	resp := NewQuoteResponse(&domain.Quote{Amount: decimal.RequireFromString("50")}, "USD")

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"breakdown":[]`)
	assert.Contains(t, string(b), `"amount":"50.00"`)
}

func TestMapError(t *testing.T) {
	validatorErr := Validate(&QuoteRequest{})
	require.Error(t, validatorErr)

	tests := []struct {
		name         string
		err          error
		expectedCode string
		status       int
		details      map[string]string
	}{
		{
			name:         "binding",
			err:          fmt.Errorf("%w: unexpected EOF", ErrBinding),
			expectedCode: ErrorCodeBadRequest,
			status:       http.StatusBadRequest,
		},
		{
			name:         "body too large",
			err:          fmt.Errorf("%w: %w", ErrBinding, &http.MaxBytesError{Limit: 10}),
			expectedCode: ErrorCodeTooLarge,
			status:       http.StatusRequestEntityTooLarge,
		},
		{
			name:         "struct validation",
			err:          validatorErr,
			expectedCode: ErrorCodeValidation,
			status:       http.StatusBadRequest,
		},
		{
			name:         "wrapped domain validation",
			err:          fmt.Errorf("validating person: %w", domain.NewValidationError("carModel", "is required")),
			expectedCode: ErrorCodeValidation,
			status:       http.StatusBadRequest,
			details:      map[string]string{"carModel": "is required"},
		},
		{
			name:         "bare sentinel",
			err:          domain.ErrValidation,
			expectedCode: ErrorCodeValidation,
			status:       http.StatusBadRequest,
		},
		{
			name:         "deadline exceeded",
			err:          fmt.Errorf("computing quote: %w", context.DeadlineExceeded),
			expectedCode: ErrorCodeTimeout,
			status:       http.StatusGatewayTimeout,
		},
		{
			name:         "unknown",
			err:          errors.New("disk on fire"),
			expectedCode: ErrorCodeInternal,
			status:       http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapError(tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)

			if tt.details != nil {
				assert.Equal(t, tt.details, resp.Error.Details)
			}
		})
	}
}

func TestMapError_HidesInternalMessage(t *testing.T) {
	_, resp := MapError(errors.New("pq: password authentication failed"))

	assert.Equal(t, "an internal error occurred", resp.Error.Message)
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"valid", `{"dateOfBirth":"1990-01-02","carYear":2010,"carMake":"Honda","carModel":"Civic"}`, nil},
		{"malformed", `{"carYear":`, ErrBinding},
		{"invalid", `{"carYear":2010}`, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req QuoteRequest
			err := BindAndValidate(c, &req)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, validRequest(), req)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/quotes", http.NoBody)

	HandleError(c, domain.NewValidationError("speedingTickets", "must not be negative"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "must not be negative", resp.Error.Details["speedingTickets"])
	assert.Empty(t, resp.TraceID)
}

func TestAbortWithCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody)

	AbortWithCode(c, ErrorCodeNotFound, "route not found")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), ErrorCodeNotFound)
}
