package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-complaints/internal/classifier"
	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/events"
	"github.com/spec-kit/civic-complaints/internal/observability"
	"github.com/spec-kit/civic-complaints/internal/repository"
	apperrors "github.com/spec-kit/civic-complaints/pkg/util"
)

// ComplaintService coordinates the intake pipeline and the status
// lifecycle. Complaints are created only through Submit and mutated
// only through SetStatus; the department assigned at intake is never
// revisited.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	classifier classifier.Classifier
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// ComplaintDependencies bundles collaborators for the service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Classifier    classifier.Classifier
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
}

// SubmitInput describes a new complaint submission.
type SubmitInput struct {
	Title       string
	Description string
	Location    string
	SubmitterID string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
}

// Submit runs the intake pipeline: validate, classify, persist. A
// classifier failure rejects the submission; the complaint is never
// stored with a defaulted department.
func (s *ComplaintService) Submit(ctx context.Context, input SubmitInput) (*domain.Complaint, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}
	submitterID := strings.TrimSpace(input.SubmitterID)
	if submitterID == "" {
		return nil, apperrors.NewValidationError("submitter_id is required", nil)
	}

	// Title and description form a single combined signal; classifying
	// only one of them degrades routing accuracy.
	text := strings.TrimSpace(strings.TrimSpace(input.Title) + " " + description)
	department, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return nil, apperrors.NewClassificationError("department classification failed", err)
	}
	s.metrics.RecordPrediction(department)

	complaint := &domain.Complaint{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(input.Title),
		Description:  description,
		Location:     strings.TrimSpace(input.Location),
		Department:   department,
		Status:       domain.ComplaintStatusRegistered,
		SubmitterID:  submitterID,
		RegisteredAt: time.Now(),
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.NewPersistenceError("store complaint", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintRegistered,
		ComplaintID: complaint.ID,
		Payload: events.ComplaintRegisteredPayload{
			Department:  complaint.Department,
			Title:       complaint.Title,
			SubmitterID: complaint.SubmitterID,
		},
	})
	return complaint, nil
}

// SetStatus applies a lifecycle transition. Any recognized status may
// move to any other recognized status. Entering Resolved stamps the
// resolution time; leaving Resolved clears it, so ResolvedAt is
// non-nil exactly while the complaint is Resolved.
func (s *ComplaintService) SetStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unrecognized status", map[string]any{"status": string(status)})
	}

	existing, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapComplaintLookupErr(err)
	}

	var resolvedAt *time.Time
	if status == domain.ComplaintStatusResolved {
		now := time.Now()
		resolvedAt = &now
	}

	updated, err := s.complaints.SetStatus(ctx, id, status, resolvedAt)
	if err != nil {
		return nil, mapComplaintLookupErr(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: updated.ID,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: existing.Status,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// Delete permanently removes a complaint.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	existing, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return mapComplaintLookupErr(err)
	}

	if err := s.complaints.Delete(ctx, id); err != nil {
		return mapComplaintLookupErr(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ComplaintID: id,
		Payload: events.ComplaintDeletedPayload{
			Department: existing.Department,
		},
	})
	return nil
}

// GetByID fetches a single complaint.
func (s *ComplaintService) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapComplaintLookupErr(err)
	}
	return complaint, nil
}

// ListBySubmitter returns the submitter's complaints.
func (s *ComplaintService) ListBySubmitter(ctx context.Context, submitterID string) ([]domain.Complaint, error) {
	complaints, err := s.complaints.ListBySubmitter(ctx, submitterID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list complaints", err)
	}
	return complaints, nil
}

// ListByDepartment returns complaints routed to a department.
func (s *ComplaintService) ListByDepartment(ctx context.Context, department string) ([]domain.Complaint, error) {
	complaints, err := s.complaints.ListByDepartment(ctx, department)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list complaints", err)
	}
	return complaints, nil
}

// ListAll returns every complaint with the submitter email projection.
func (s *ComplaintService) ListAll(ctx context.Context) ([]repository.ComplaintWithSubmitter, error) {
	complaints, err := s.complaints.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list complaints", err)
	}
	return complaints, nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapComplaintLookupErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("complaint", nil)
	}
	return apperrors.NewPersistenceError("complaint store", err)
}
