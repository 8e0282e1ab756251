package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/insurance-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/insurance-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
)

var computedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newQuoteRouter(h *QuoteHandler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.CorrelationID())
	h.RegisterQuoteRoutes(router.Group("/api/v1"))

	return router
}

func postQuote(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	return w
}

func TestQuoteHandler_ComputeQuote(t *testing.T) {
	calc := newMockQuoteCalculator(t)

	expectedPerson := domain.Person{
		DateOfBirth:     time.Date(2007, 3, 4, 0, 0, 0, 0, time.UTC),
		CarYear:         1995,
		CarMake:         "Porsche",
		CarModel:        "911 Carrera",
		SpeedingTickets: 1,
		HasDUI:          true,
		HasFullCoverage: true,
	}

	calc.On("ComputeQuote", mock.Anything, expectedPerson).Return(&domain.Quote{
		Amount: dec("440.62"),
		Exact:  dec("440.625"),
		Breakdown: []domain.Adjustment{
			{Stage: "age", Before: dec("50.00"), After: dec("150.00")},
			{Stage: "vehicle", Before: dec("150.00"), After: dec("225.00")},
			{Stage: "driving_history", Before: dec("225.00"), After: dec("293.75")},
			{Stage: "coverage", Before: dec("293.75"), After: dec("440.625")},
		},
		ComputedAt: computedAt,
	}, nil).Once()

	router := newQuoteRouter(NewQuoteHandler(calc, "USD"))

	w := postQuote(router, `{
		"dateOfBirth": "2007-03-04",
		"carYear": 1995,
		"carMake": "Porsche",
		"carModel": "911 Carrera",
		"speedingTickets": 1,
		"hasDui": true,
		"hasFullCoverage": true
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "440.62", resp["amount"])
	assert.Equal(t, "440.625", resp["exact"])
	assert.Equal(t, "USD", resp["currency"])
	assert.Equal(t, "2024-06-01T12:00:00Z", resp["computedAt"])
	assert.Equal(t, w.Header().Get(middleware.HeaderRequestID), resp["requestId"])
	assert.Equal(t, w.Header().Get(middleware.HeaderCorrelationID), resp["correlationId"])

	breakdown, ok := resp["breakdown"].([]any)
	require.True(t, ok)
	require.Len(t, breakdown, 4)

	first, ok := breakdown[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "age", first["stage"])
	assert.Equal(t, "50", first["before"])
	assert.Equal(t, "150", first["after"])
}

func TestQuoteHandler_ComputeQuote_AmountAlwaysHasCents(t *testing.T) {
	calc := newMockQuoteCalculator(t)
	calc.On("ComputeQuote", mock.Anything, mock.AnythingOfType("domain.Person")).Return(&domain.Quote{
		Amount: dec("75"),
		Exact:  dec("75.00"),
	}, nil).Once()

	w := postQuote(newQuoteRouter(NewQuoteHandler(calc, "USD")),
		`{"dateOfBirth":"1994-01-01","carYear":2010,"carMake":"Honda","carModel":"Civic"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"amount":"75.00"`)
}

func TestQuoteHandler_ComputeQuote_BadRequests(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedCode  string
		expectedField string
	}{
		{
			name:         "malformed json",
			body:         `{"dateOfBirth":`,
			expectedCode: dto.ErrorCodeBadRequest,
		},
		{
			name:         "wrong type",
			body:         `{"dateOfBirth":"1990-01-01","carYear":"new","carMake":"Honda","carModel":"Civic"}`,
			expectedCode: dto.ErrorCodeBadRequest,
		},
		{
			name:          "missing date of birth",
			body:          `{"carYear":2010,"carMake":"Honda","carModel":"Civic"}`,
			expectedCode:  dto.ErrorCodeValidation,
			expectedField: "dateOfBirth",
		},
		{
			name:          "date of birth not a date",
			body:          `{"dateOfBirth":"01/02/1990","carYear":2010,"carMake":"Honda","carModel":"Civic"}`,
			expectedCode:  dto.ErrorCodeValidation,
			expectedField: "dateOfBirth",
		},
		{
			name:          "non positive car year",
			body:          `{"dateOfBirth":"1990-01-01","carYear":-1,"carMake":"Honda","carModel":"Civic"}`,
			expectedCode:  dto.ErrorCodeValidation,
			expectedField: "carYear",
		},
		{
			name:          "blank car make",
			body:          `{"dateOfBirth":"1990-01-01","carYear":2010,"carMake":"   ","carModel":"Civic"}`,
			expectedCode:  dto.ErrorCodeValidation,
			expectedField: "carMake",
		},
		{
			name:          "negative tickets",
			body:          `{"dateOfBirth":"1990-01-01","carYear":2010,"carMake":"Honda","carModel":"Civic","speedingTickets":-2}`,
			expectedCode:  dto.ErrorCodeValidation,
			expectedField: "speedingTickets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The calculator must not be reached.
			calc := newMockQuoteCalculator(t)

			w := postQuote(newQuoteRouter(NewQuoteHandler(calc, "USD")), tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Error.Code)

			if tt.expectedField != "" {
				assert.Contains(t, resp.Error.Details, tt.expectedField)
			}
		})
	}
}

func TestQuoteHandler_ComputeQuote_DomainValidation(t *testing.T) {
	calc := newMockQuoteCalculator(t)
	calc.On("ComputeQuote", mock.Anything, mock.AnythingOfType("domain.Person")).
		Return(nil, domain.NewValidationError("dateOfBirth", "must not be in the future")).Once()

	w := postQuote(newQuoteRouter(NewQuoteHandler(calc, "USD")),
		`{"dateOfBirth":"2999-01-01","carYear":2010,"carMake":"Honda","carModel":"Civic"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, "must not be in the future", resp.Error.Details["dateOfBirth"])
}

func TestQuoteHandler_ComputeQuote_InternalError(t *testing.T) {
	calc := newMockQuoteCalculator(t)
	calc.On("ComputeQuote", mock.Anything, mock.AnythingOfType("domain.Person")).
		Return(nil, errors.New("stage exploded")).Once()

	w := postQuote(newQuoteRouter(NewQuoteHandler(calc, "USD")),
		`{"dateOfBirth":"1990-01-01","carYear":2010,"carMake":"Honda","carModel":"Civic"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "stage exploded")
	assert.Contains(t, w.Body.String(), dto.ErrorCodeInternal)
}

func TestQuoteHandler_ListStages(t *testing.T) {
	calc := newMockQuoteCalculator(t)
	calc.On("BasePrice").Return(dec("50.00")).Once()
	calc.On("Stages").Return([]string{"age", "vehicle", "driving_history", "coverage"}).Once()

	router := newQuoteRouter(NewQuoteHandler(calc, "USD"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/stages", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"base":"50","stages":["age","vehicle","driving_history","coverage"]}`, w.Body.String())
}

func TestQuoteHandler_ComputeQuote_EchoesCallerCorrelationID(t *testing.T) {
	calc := newMockQuoteCalculator(t)
	calc.On("ComputeQuote", mock.Anything, mock.Anything).
		Return(&domain.Quote{Amount: dec("75"), Exact: dec("75"), ComputedAt: computedAt}, nil).Once()

	router := newQuoteRouter(NewQuoteHandler(calc, "USD"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(
		`{"dateOfBirth":"1990-01-02","carYear":2010,"carMake":"Honda","carModel":"Civic"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderCorrelationID, "broker-batch-42")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "broker-batch-42", resp.CorrelationID)
}

func TestQuoteHandler_ComputeQuote_DeadlineExceeded(t *testing.T) {
	calc := newMockQuoteCalculator(t)
	calc.On("ComputeQuote", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx, ok := args.Get(0).(context.Context)
			require.True(t, ok)
			<-ctx.Done()
		}).
		Return(&domain.Quote{Amount: dec("75"), Exact: dec("75"), ComputedAt: computedAt}, nil).Once()

	router := gin.New()
	router.Use(middleware.Timeout(10 * time.Millisecond))
	NewQuoteHandler(calc, "USD").RegisterQuoteRoutes(router.Group("/api/v1"))

	w := postQuote(router, `{"dateOfBirth":"1990-01-02","carYear":2010,"carMake":"Honda","carModel":"Civic"}`)

	require.Equal(t, http.StatusGatewayTimeout, w.Code, w.Body.String())

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeTimeout, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "amount")
}
