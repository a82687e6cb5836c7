package handlers

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/observability"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// MetricsHandler exposes the prometheus registry to principals holding
// metrics:view.
type MetricsHandler struct {
	authorizer *auth.Authorizer
	serve      fiber.Handler
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(authorizer *auth.Authorizer, metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{
		authorizer: authorizer,
		serve: adaptor.HTTPHandler(promhttp.HandlerFor(
			metrics.Registry,
			promhttp.HandlerOpts{},
		)),
	}
}

// Serve GET /metrics.
func (h *MetricsHandler) Serve(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if !h.authorizer.CanViewPerformanceMetrics(principal) {
		if principal == nil {
			return apperrors.NewUnauthenticated("authentication required")
		}
		return apperrors.NewForbidden("missing permission metrics:view")
	}
	return h.serve(c)
}
