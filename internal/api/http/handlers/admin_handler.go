package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-complaints/internal/api/dto"
	"github.com/spec-kit/civic-complaints/internal/auth"
	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/service"
	apperrors "github.com/spec-kit/civic-complaints/pkg/util"
)

// AdminHandler exposes the department-scoped complaint listing for
// administrative accounts.
type AdminHandler struct {
	service *service.ComplaintService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaintService *service.ComplaintService) *AdminHandler {
	return &AdminHandler{service: complaintService}
}

// ListComplaints GET /admin/complaints. A superadmin sees everything;
// a department admin sees only complaints routed to their department.
func (h *AdminHandler) ListComplaints(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	switch principal.User.Role {
	case domain.RoleSuperAdmin:
		complaints, err := h.service.ListAll(c.Context())
		if err != nil {
			return err
		}
		items := make([]dto.ComplaintAdminResponse, 0, len(complaints))
		for i := range complaints {
			items = append(items, dto.NewComplaintAdminResponse(&complaints[i]))
		}
		return c.JSON(fiber.Map{"data": items})
	case domain.RoleDepartmentAdmin:
		if principal.User.Department == nil {
			return apperrors.NewForbidden("no department assigned")
		}
		complaints, err := h.service.ListByDepartment(c.Context(), *principal.User.Department)
		if err != nil {
			return err
		}
		items := make([]dto.ComplaintResponse, 0, len(complaints))
		for i := range complaints {
			items = append(items, dto.NewComplaintResponse(&complaints[i]))
		}
		return c.JSON(fiber.Map{"data": items})
	default:
		return apperrors.NewForbidden("admin role required")
	}
}
