package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opsdeck/filegate/internal/database"
	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// MySQLResourceRepository implements resource metadata reads for MySQL.
type MySQLResourceRepository struct {
	db *sql.DB
}

// NewMySQLResourceRepository creates a new MySQL resource repository.
func NewMySQLResourceRepository(db *sql.DB) *MySQLResourceRepository {
	return &MySQLResourceRepository{db: db}
}

// Fetch retrieves the record for one resource, including the ownership
// fields its authorization rule needs. Returns ErrResourceNotFound when no
// row matches.
func (m *MySQLResourceRepository) Fetch(
	ctx context.Context,
	resourceType downloadDomain.ResourceType,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	switch resourceType {
	case downloadDomain.ResourceTypeTaskUpload:
		return m.fetchTaskUpload(ctx, resourceID)
	case downloadDomain.ResourceTypeSupportAttachment:
		return m.fetchSupportAttachment(ctx, resourceID)
	case downloadDomain.ResourceTypePlanDocument:
		return m.fetchPlanDocument(ctx, resourceID)
	case downloadDomain.ResourceTypeBackup:
		return m.fetchBackup(ctx, resourceID)
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported resource type")
	}
}

func (m *MySQLResourceRepository) fetchTaskUpload(
	ctx context.Context,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT u.id, u.relative_path, u.display_name, t.client_id
			  FROM task_uploads u
			  JOIN tasks t ON t.id = u.task_id
			  WHERE u.id = ?`

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

	assignQuery := `SELECT employee_id FROM task_assignments WHERE task_client_id = ? ORDER BY employee_id`

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

func (m *MySQLResourceRepository) fetchSupportAttachment(
	ctx context.Context,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT a.id, a.relative_path, a.display_name, s.submitter_id, s.submitter_role, s.assigned_to
			  FROM support_attachments a
			  JOIN support_tickets s ON s.id = a.ticket_id
			  WHERE a.id = ?`

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

func (m *MySQLResourceRepository) fetchPlanDocument(
	ctx context.Context,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, relative_path, display_name, client_id FROM plan_documents WHERE id = ?`

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

func (m *MySQLResourceRepository) fetchBackup(
	ctx context.Context,
	resourceID int64,
) (*downloadDomain.ResourceRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, relative_path, display_name FROM backups WHERE id = ?`

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
