// Package repository implements persistence for the download core against
// PostgreSQL and MySQL. Resource reads join the portal's ownership tables;
// the download core never writes to them.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opsdeck/filegate/internal/database"
	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// PostgreSQLResourceRepository implements resource metadata reads for PostgreSQL.
type PostgreSQLResourceRepository struct {
	db *sql.DB
}

// NewPostgreSQLResourceRepository creates a new PostgreSQL resource repository.
func NewPostgreSQLResourceRepository(db *sql.DB) *PostgreSQLResourceRepository {
	return &PostgreSQLResourceRepository{db: db}
}

// Fetch retrieves the record for one resource, including the ownership
// fields its authorization rule needs. Returns ErrResourceNotFound when no
// row matches.
func (p *PostgreSQLResourceRepository) Fetch(
	ctx context.Context,
	resourceType downloadDomain.ResourceType,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	switch resourceType {
	case downloadDomain.ResourceTypeTaskUpload:
		return p.fetchTaskUpload(ctx, resourceID)
	case downloadDomain.ResourceTypeSupportAttachment:
		return p.fetchSupportAttachment(ctx, resourceID)
	case downloadDomain.ResourceTypePlanDocument:
		return p.fetchPlanDocument(ctx, resourceID)
	case downloadDomain.ResourceTypeBackup:
		return p.fetchBackup(ctx, resourceID)
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported resource type")
	}
}

func (p *PostgreSQLResourceRepository) fetchTaskUpload(
	ctx context.Context,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT u.id, u.relative_path, u.display_name, t.client_id
			  FROM task_uploads u
			  JOIN tasks t ON t.id = u.task_id
			  WHERE u.id = $1`

	record := downloadDomain.ResourceRecord{
		Type: downloadDomain.ResourceTypeTaskUpload,
		Task: &downloadDomain.TaskInfo{},
	}

	err := querier.QueryRowContext(ctx, query, resourceID).Scan(
		&record.ID,
		&record.RelativePath,
		&record.DisplayName,
		&record.Task.ClientID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, downloadDomain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get task upload")
	}

	// The assignment relation is per owning client, not per task.
	assignQuery := `SELECT employee_id FROM task_assignments WHERE task_client_id = $1 ORDER BY employee_id`

	rows, err := querier.QueryContext(ctx, assignQuery, record.Task.ClientID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list task assignments")
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var employeeID int64
		if err := rows.Scan(&employeeID); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan task assignment")
		}
		record.Task.AssignedEmployeeIDs = append(record.Task.AssignedEmployeeIDs, employeeID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate task assignments")
	}

	return &record, nil
}

func (p *PostgreSQLResourceRepository) fetchSupportAttachment(
	ctx context.Context,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT a.id, a.relative_path, a.display_name, s.submitter_id, s.submitter_role, s.assigned_to
			  FROM support_attachments a
			  JOIN support_tickets s ON s.id = a.ticket_id
			  WHERE a.id = $1`

	record := downloadDomain.ResourceRecord{
		Type:   downloadDomain.ResourceTypeSupportAttachment,
		Ticket: &downloadDomain.TicketInfo{},
	}
	var assignedTo sql.NullInt64

	err := querier.QueryRowContext(ctx, query, resourceID).Scan(
		&record.ID,
		&record.RelativePath,
		&record.DisplayName,
		&record.Ticket.SubmitterID,
		&record.Ticket.SubmitterRole,
		&assignedTo,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, downloadDomain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get support attachment")
	}

	if assignedTo.Valid {
		record.Ticket.AssignedTo = &assignedTo.Int64
	}

	return &record, nil
}

func (p *PostgreSQLResourceRepository) fetchPlanDocument(
	ctx context.Context,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, relative_path, display_name, client_id FROM plan_documents WHERE id = $1`

	record := downloadDomain.ResourceRecord{
		Type: downloadDomain.ResourceTypePlanDocument,
		Plan: &downloadDomain.PlanInfo{},
	}

	err := querier.QueryRowContext(ctx, query, resourceID).Scan(
		&record.ID,
		&record.RelativePath,
		&record.DisplayName,
		&record.Plan.ClientID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, downloadDomain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get plan document")
	}

	return &record, nil
}

func (p *PostgreSQLResourceRepository) fetchBackup(
	ctx context.Context,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, relative_path, display_name FROM backups WHERE id = $1`

	record := downloadDomain.ResourceRecord{
		Type: downloadDomain.ResourceTypeBackup,
	}

	err := querier.QueryRowContext(ctx, query, resourceID).Scan(
		&record.ID,
		&record.RelativePath,
		&record.DisplayName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, downloadDomain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get backup")
	}

	return &record, nil
}
