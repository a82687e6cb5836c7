package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// SLAHandler serves the SLA reference data.
type SLAHandler struct {
	service *service.SLAService
}

// NewSLAHandler constructs handler.
func NewSLAHandler(slaService *service.SLAService) *SLAHandler {
	return &SLAHandler{service: slaService}
}

// List GET /sla.
func (h *SLAHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	policies, err := h.service.ListPolicies(c.UserContext(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.SLAPolicyResponse, 0, len(policies))
	for _, policy := range policies {
		items = append(items, slaResponse(policy))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// Get GET /sla/:id.
func (h *SLAHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	policy, err := h.service.GetPolicy(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": slaResponse(*policy)})
}

func slaResponse(policy domain.SLAPolicy) dto.SLAPolicyResponse {
	return dto.SLAPolicyResponse{
		ID:                policy.ID,
		Name:              policy.Name,
		Priority:          policy.Priority,
		ResponseTimeMin:   policy.ResponseTimeMin,
		ResolutionTimeMin: policy.ResolutionTimeMin,
	}
}
