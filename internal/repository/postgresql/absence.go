package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
	"github.com/peoplekit/absence-backend-go/internal/pkg/database"
)

const absenceColumns = `
	ar.id, ar.employee_id,
	ar.start_date, ar.end_date, ar.number_of_days,
	ar.category, ar.reason, ar.symptoms,
	ar.requires_documentation, ar.documentation_provided,
	ar.status,
	ar.created_by_user_id, ar.created_by_role, ar.is_admin_created,
	ar.approval_user_id, ar.approval_role, ar.approval_comments,
	ar.approved_at, ar.rejected_at, ar.rejection_reason,
	ar.returned_to_work, ar.actual_return_date, ar.fit_for_work, ar.restrictions_on_return,
	ar.linked_to_earlier_sickness_id,
	ar.created_at, ar.updated_at`

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepositoryImpl{db: db}
}

func scanAbsence(row pgx.Row) (absence.AbsenceRecord, error) {
	var r absence.AbsenceRecord
	err := row.Scan(
		&r.ID, &r.EmployeeID,
		&r.StartDate, &r.EndDate, &r.NumberOfDays,
		&r.Category, &r.Reason, &r.Symptoms,
		&r.RequiresDocumentation, &r.DocumentationProvided,
		&r.Status,
		&r.CreatedByUserID, &r.CreatedByRole, &r.IsAdminCreated,
		&r.ApprovalUserID, &r.ApprovalRole, &r.ApprovalComments,
		&r.ApprovedAt, &r.RejectedAt, &r.RejectionReason,
		&r.ReturnedToWork, &r.ActualReturnDate, &r.FitForWork, &r.RestrictionsOnReturn,
		&r.LinkedToEarlierSicknessID,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *absenceRepositoryImpl) Create(ctx context.Context, record absence.AbsenceRecord) (absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absence_records (
			id, employee_id,
			start_date, end_date, number_of_days,
			category, reason, symptoms,
			requires_documentation, documentation_provided,
			status,
			created_by_user_id, created_by_role, is_admin_created,
			approval_user_id, approval_role, approval_comments, approved_at,
			linked_to_earlier_sickness_id,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1,
			$2, $3, $4,
			$5, $6, $7,
			$8, $9,
			$10,
			$11, $12, $13,
			$14, $15, $16, $17,
			$18,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.StartDate, record.EndDate, record.NumberOfDays,
		record.Category, record.Reason, record.Symptoms,
		record.RequiresDocumentation, record.DocumentationProvided,
		record.Status,
		record.CreatedByUserID, record.CreatedByRole, record.IsAdminCreated,
		record.ApprovalUserID, record.ApprovalRole, record.ApprovalComments, record.ApprovedAt,
		record.LinkedToEarlierSicknessID,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return absence.AbsenceRecord{}, err
	}

	return record, nil
}

func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceColumns + `,
			   e.full_name as employee_name
		FROM absence_records ar
		JOIN employees e ON ar.employee_id = e.id
		WHERE ar.id = $1
	`

	var record absence.AbsenceRecord
	var employeeName string
	err := q.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.EmployeeID,
		&record.StartDate, &record.EndDate, &record.NumberOfDays,
		&record.Category, &record.Reason, &record.Symptoms,
		&record.RequiresDocumentation, &record.DocumentationProvided,
		&record.Status,
		&record.CreatedByUserID, &record.CreatedByRole, &record.IsAdminCreated,
		&record.ApprovalUserID, &record.ApprovalRole, &record.ApprovalComments,
		&record.ApprovedAt, &record.RejectedAt, &record.RejectionReason,
		&record.ReturnedToWork, &record.ActualReturnDate, &record.FitForWork, &record.RestrictionsOnReturn,
		&record.LinkedToEarlierSicknessID,
		&record.CreatedAt, &record.UpdatedAt,
		&employeeName,
	)
	if err != nil {
		return absence.AbsenceRecord{}, err
	}

	record.EmployeeName = &employeeName
	return record, nil
}

func (r *absenceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter absence.ListFilter) ([]absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}

	args = append(args, employeeID)
	conditions = append(conditions, fmt.Sprintf("ar.employee_id = $%d", len(args)))

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("ar.end_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("ar.start_date <= $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("ar.status = $%d", len(args)))
	}

	query := `
		SELECT ` + absenceColumns + `
		FROM absence_records ar
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY ar.start_date DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAbsences(rows)
}

func (r *absenceRepositoryImpl) ListPending(ctx context.Context) ([]absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceColumns + `,
			   e.full_name as employee_name
		FROM absence_records ar
		JOIN employees e ON ar.employee_id = e.id
		WHERE ar.status = 'pending'
		ORDER BY ar.created_at ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []absence.AbsenceRecord
	for rows.Next() {
		var record absence.AbsenceRecord
		var employeeName string
		err := rows.Scan(
			&record.ID, &record.EmployeeID,
			&record.StartDate, &record.EndDate, &record.NumberOfDays,
			&record.Category, &record.Reason, &record.Symptoms,
			&record.RequiresDocumentation, &record.DocumentationProvided,
			&record.Status,
			&record.CreatedByUserID, &record.CreatedByRole, &record.IsAdminCreated,
			&record.ApprovalUserID, &record.ApprovalRole, &record.ApprovalComments,
			&record.ApprovedAt, &record.RejectedAt, &record.RejectionReason,
			&record.ReturnedToWork, &record.ActualReturnDate, &record.FitForWork, &record.RestrictionsOnReturn,
			&record.LinkedToEarlierSicknessID,
			&record.CreatedAt, &record.UpdatedAt,
			&employeeName,
		)
		if err != nil {
			return nil, err
		}
		record.EmployeeName = &employeeName
		records = append(records, record)
	}

	return records, rows.Err()
}

// FindOverlapping uses the inclusive interval test: an existing record
// conflicts when its start is on or before the new end AND its end is on or
// after the new start. Only pending and approved records block.
func (r *absenceRepositoryImpl) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) ([]absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceColumns + `
		FROM absence_records ar
		WHERE ar.employee_id = $1
		  AND ar.status IN ('pending', 'approved')
		  AND ar.start_date <= $3
		  AND ar.end_date >= $2
	`
	args := []interface{}{employeeID, start, end}

	if excludeID != nil {
		args = append(args, *excludeID)
		query += fmt.Sprintf(" AND ar.id != $%d", len(args))
	}

	query += " ORDER BY ar.start_date ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAbsences(rows)
}

// Resolve is a conditional update: the WHERE clause requires the record to
// still be pending, so a record already resolved (or missing) yields
// pgx.ErrNoRows.
func (r *absenceRepositoryImpl) Resolve(ctx context.Context, res absence.Resolution) (absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	var query string
	var args []interface{}

	if res.Status == absence.StatusApproved {
		query = `
			UPDATE absence_records ar
			SET status = 'approved',
				approval_user_id = $2,
				approval_role = $3,
				approval_comments = $4,
				approved_at = $5,
				updated_at = NOW()
			WHERE ar.id = $1 AND ar.status = 'pending'
			RETURNING ` + absenceColumns
		args = []interface{}{res.ID, res.ActorUserID, res.ActorRole, res.Comments, res.ResolvedAt}
	} else {
		query = `
			UPDATE absence_records ar
			SET status = 'rejected',
				approval_user_id = $2,
				approval_role = $3,
				rejection_reason = $4,
				rejected_at = $5,
				updated_at = NOW()
			WHERE ar.id = $1 AND ar.status = 'pending'
			RETURNING ` + absenceColumns
		args = []interface{}{res.ID, res.ActorUserID, res.ActorRole, res.RejectionReason, res.ResolvedAt}
	}

	return scanAbsence(q.QueryRow(ctx, query, args...))
}

func (r *absenceRepositoryImpl) UpdateReturnToWork(ctx context.Context, id string, rtw absence.ReturnToWork) (absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absence_records ar
		SET returned_to_work = TRUE,
			actual_return_date = COALESCE($2, ar.actual_return_date),
			fit_for_work = COALESCE($3, ar.fit_for_work),
			restrictions_on_return = COALESCE($4, ar.restrictions_on_return),
			documentation_provided = COALESCE($5, ar.documentation_provided),
			updated_at = NOW()
		WHERE ar.id = $1
		RETURNING ` + absenceColumns

	return scanAbsence(q.QueryRow(ctx, query, id, rtw.ActualReturnDate, rtw.FitForWork, rtw.RestrictionsOnReturn, rtw.DocumentationProvided))
}

func (r *absenceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM absence_records
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *absenceRepositoryImpl) ListApprovedStartingBetween(ctx context.Context, employeeID string, from, to time.Time) ([]absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceColumns + `
		FROM absence_records ar
		WHERE ar.employee_id = $1
		  AND ar.status = 'approved'
		  AND ar.start_date BETWEEN $2 AND $3
		ORDER BY ar.start_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAbsences(rows)
}

func collectAbsences(rows pgx.Rows) ([]absence.AbsenceRecord, error) {
	var records []absence.AbsenceRecord
	for rows.Next() {
		record, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
