package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-complaints/internal/domain"
)

// ComplaintWithSubmitter joins a complaint with the submitter's email
// for the admin listing. The email is a read-only display projection.
type ComplaintWithSubmitter struct {
	domain.Complaint
	SubmitterEmail *string
}

// ComplaintRepository encapsulates complaint persistence. Every write
// is a single statement, so a concurrent reader never observes a
// half-written record.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListBySubmitter(ctx context.Context, submitterID string) ([]domain.Complaint, error)
	ListByDepartment(ctx context.Context, department string) ([]domain.Complaint, error)
	ListAll(ctx context.Context) ([]ComplaintWithSubmitter, error)
	SetStatus(ctx context.Context, id string, status domain.ComplaintStatus, resolvedAt *time.Time) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) error
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, title, description, location, department, status, submitter_id, registered_at, resolved_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, title, description, location, department, status, submitter_id, registered_at, resolved_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		complaint.ID,
		complaint.Title,
		complaint.Description,
		complaint.Location,
		complaint.Department,
		complaint.Status,
		complaint.SubmitterID,
		complaint.RegisteredAt,
		complaint.ResolvedAt,
	)
	return err
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`

	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Location,
		&complaint.Department,
		&complaint.Status,
		&complaint.SubmitterID,
		&complaint.RegisteredAt,
		&complaint.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListBySubmitter(ctx context.Context, submitterID string) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE submitter_id=$1 ORDER BY registered_at`
	return r.list(ctx, query, submitterID)
}

func (r *complaintRepository) ListByDepartment(ctx context.Context, department string) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE department=$1 ORDER BY registered_at`
	return r.list(ctx, query, department)
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]ComplaintWithSubmitter, error) {
	const query = `
        SELECT c.id, c.title, c.description, c.location, c.department, c.status,
               c.submitter_id, c.registered_at, c.resolved_at, u.email
        FROM complaints c
        LEFT JOIN users u ON u.id = c.submitter_id
        ORDER BY c.registered_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ComplaintWithSubmitter
	for rows.Next() {
		var item ComplaintWithSubmitter
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&item.Location,
			&item.Department,
			&item.Status,
			&item.SubmitterID,
			&item.RegisteredAt,
			&item.ResolvedAt,
			&item.SubmitterEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// SetStatus applies the status and resolution timestamp in a single
// UPDATE and returns the updated record. Returns pgx.ErrNoRows when no
// complaint has the id.
func (r *complaintRepository) SetStatus(ctx context.Context, id string, status domain.ComplaintStatus, resolvedAt *time.Time) (*domain.Complaint, error) {
	query := `UPDATE complaints SET status=$2, resolved_at=$3 WHERE id=$1 RETURNING ` + complaintColumns

	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id, status, resolvedAt).Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Location,
		&complaint.Department,
		&complaint.Status,
		&complaint.SubmitterID,
		&complaint.RegisteredAt,
		&complaint.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) list(ctx context.Context, query string, arg any) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Title,
			&complaint.Description,
			&complaint.Location,
			&complaint.Department,
			&complaint.Status,
			&complaint.SubmitterID,
			&complaint.RegisteredAt,
			&complaint.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
