package dto

import (
	"time"

	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/repository"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	SubmitterID string `json:"submitter_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ComplaintResponse is the canonical complaint representation.
type ComplaintResponse struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Location     string                 `json:"location"`
	Department   string                 `json:"department"`
	Status       domain.ComplaintStatus `json:"status"`
	SubmitterID  string                 `json:"submitter_id"`
	RegisteredAt time.Time              `json:"registered_at"`
	ResolvedAt   *time.Time             `json:"resolved_at"`
}

// ComplaintAdminResponse adds the submitter email projection for the
// admin listing.
type ComplaintAdminResponse struct {
	ComplaintResponse
	CitizenEmail *string `json:"citizen_email"`
}

// NewComplaintResponse maps the domain model.
func NewComplaintResponse(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:           complaint.ID,
		Title:        complaint.Title,
		Description:  complaint.Description,
		Location:     complaint.Location,
		Department:   complaint.Department,
		Status:       complaint.Status,
		SubmitterID:  complaint.SubmitterID,
		RegisteredAt: complaint.RegisteredAt,
		ResolvedAt:   complaint.ResolvedAt,
	}
}

// NewComplaintAdminResponse maps the joined projection.
func NewComplaintAdminResponse(item *repository.ComplaintWithSubmitter) ComplaintAdminResponse {
	return ComplaintAdminResponse{
		ComplaintResponse: NewComplaintResponse(&item.Complaint),
		CitizenEmail:      item.SubmitterEmail,
	}
}
