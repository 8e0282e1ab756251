// Package handlers provides HTTP request handlers for the service.
package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/insurance-quote-service/internal/ports"
)

// BuildInfo is served on /-/build. Version, Commit and BuildTime are set
// with ldflags.
type BuildInfo struct {
	Version   string       `json:"version"`
	Commit    string       `json:"commit"`
	BuildTime string       `json:"buildTime"`
	GoVersion string       `json:"goVersion"`
	Pricing   *PricingInfo `json:"pricing,omitempty"`
}

// PricingInfo describes the pipeline a running instance quotes with, so two
// instances returning different amounts can be told apart.
type PricingInfo struct {
	Base     decimal.Decimal `json:"base"`
	Stages   []string        `json:"stages"`
	Currency string          `json:"currency"`
}

// NewBuildInfo creates a BuildInfo with the Go version automatically set.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// WithPricing returns a copy of b reporting calc's pipeline.
func (b BuildInfo) WithPricing(calc ports.QuoteCalculator, currency string) BuildInfo {
	b.Pricing = &PricingInfo{
		Base:     calc.BasePrice(),
		Stages:   calc.Stages(),
		Currency: currency,
	}

	return b
}

// HealthHandler serves the operational endpoints under /-/.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	gatherer  prometheus.Gatherer
}

// NewHealthHandler creates a new health handler. Metrics are served from
// gatherer, or from the default prometheus registry when gatherer is nil.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, gatherer prometheus.Gatherer) *HealthHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		gatherer:  gatherer,
	}
}

// Liveness answers 200 while the process runs.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness answers 503 when any registered check, such as the pricing
// pipeline, is unhealthy.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	})
}

// BuildInfoHandler serves the build and pricing information.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler returns an http.Handler exposing the quote counters and
// amount histogram in the Prometheus text format.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})
}

// RegisterRoutes mounts /-/live, /-/ready, /-/build and /-/metrics.
func (h *HealthHandler) RegisterRoutes(engine *gin.Engine) {
	ops := engine.Group("/-")
	ops.GET("/live", h.Liveness)
	ops.GET("/ready", h.Readiness)
	ops.GET("/build", h.BuildInfoHandler)
	ops.GET("/metrics", gin.WrapH(h.MetricsHandler()))
}
