package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/insurance-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/insurance-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/insurance-quote-service/internal/ports"
)

// QuoteHandler handles quote endpoints.
type QuoteHandler struct {
	calculator ports.QuoteCalculator
	currency   string
}

// NewQuoteHandler creates a quote handler that reports amounts in currency.
func NewQuoteHandler(calculator ports.QuoteCalculator, currency string) *QuoteHandler {
	return &QuoteHandler{
		calculator: calculator,
		currency:   currency,
	}
}

// ComputeQuote handles POST /api/v1/quotes.
//
// @Summary Compute an insurance quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Person to price"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) ComputeQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	person, err := req.ToPerson()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()

	quote, err := h.calculator.ComputeQuote(ctx, person)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	// A quote finished after the API deadline is not sent.
	if err := ctx.Err(); err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := dto.NewQuoteResponse(quote, h.currency)
	resp.RequestID = middleware.GetRequestID(c)
	resp.CorrelationID = middleware.GetCorrelationID(c)

	c.JSON(http.StatusOK, resp)
}

// ListStages handles GET /api/v1/quotes/stages.
//
// @Summary List the pricing stages in application order
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.StagesResponse
// @Router /api/v1/quotes/stages [get]
func (h *QuoteHandler) ListStages(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StagesResponse{
		Base:   h.calculator.BasePrice(),
		Stages: h.calculator.Stages(),
	})
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.POST("", h.ComputeQuote)
	quotes.GET("/stages", h.ListStages)
}
