package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-complaints/internal/api/dto"
	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/service"
	apperrors "github.com/spec-kit/civic-complaints/pkg/util"
)

// ComplaintsHandler manages the complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Submit POST /complaints.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.Submit(c.Context(), service.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		SubmitterID: req.SubmitterID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListBySubmitter GET /complaints/user/:id.
func (h *ComplaintsHandler) ListBySubmitter(c *fiber.Ctx) error {
	complaints, err := h.service.ListBySubmitter(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewComplaintResponse(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAll GET /complaints.
func (h *ComplaintsHandler) ListAll(c *fiber.Ctx) error {
	complaints, err := h.service.ListAll(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintAdminResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewComplaintAdminResponse(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateStatus PUT /complaints/:id.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	complaint, err := h.service.SetStatus(c.Context(), c.Params("id"), domain.ComplaintStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Delete DELETE /complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
