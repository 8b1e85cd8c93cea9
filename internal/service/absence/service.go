package absence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/peoplekit/absence-backend-go/internal/config"
	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
	"github.com/peoplekit/absence-backend-go/internal/domain/employee"
	"github.com/peoplekit/absence-backend-go/internal/domain/notification"
	"github.com/peoplekit/absence-backend-go/internal/domain/user"
	"github.com/peoplekit/absence-backend-go/internal/pkg/database"
	"github.com/peoplekit/absence-backend-go/internal/repository/postgresql"
)

const defaultApprovalComment = "Approved"

// adminRoles is the distribution list for notifications about new requests.
var adminRoles = []user.Role{user.RoleAdmin, user.RoleHR}

type RecordService struct {
	db  *database.DB
	cfg config.AbsenceConfig
	absence.AbsenceRepository
	employee.EmployeeRepository
	user.UserRepository
	notifier notification.Service
}

func NewRecordService(
	db *database.DB,
	cfg config.AbsenceConfig,
	absenceRepository absence.AbsenceRepository,
	employeeRepository employee.EmployeeRepository,
	userRepository user.UserRepository,
	notifier notification.Service,
) *RecordService {
	return &RecordService{
		db:                 db,
		cfg:                cfg,
		AbsenceRepository:  absenceRepository,
		EmployeeRepository: employeeRepository,
		UserRepository:     userRepository,
		notifier:           notifier,
	}
}

// Create files a new absence record. Non-admin callers are always resolved to
// their own employee identity; callers with the create-for-others permission
// may name a target employee, in which case the record is auto-approved at
// creation with the filing admin stamped as approver.
func (s *RecordService) Create(ctx context.Context, actor user.Identity, req absence.CreateAbsenceRequest) (absence.CreateResult, error) {
	var targetID string
	onBehalf := false
	if req.EmployeeID != "" && actor.Can(user.PermissionAbsenceCreateForOthers) {
		targetID = req.EmployeeID
		onBehalf = !actor.OwnsEmployee(req.EmployeeID)
	} else {
		if actor.EmployeeID == nil {
			return absence.CreateResult{}, user.ErrNoEmployeeProfile
		}
		targetID = *actor.EmployeeID
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.CreateResult{}, employee.ErrEmployeeNotFound
		}
		return absence.CreateResult{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return absence.CreateResult{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return absence.CreateResult{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	numberOfDays, err := CalculateDays(startDate, endDate)
	if err != nil {
		return absence.CreateResult{}, err
	}

	if req.LinkedToEarlierSickness != nil {
		if _, err := s.AbsenceRepository.GetByID(ctx, *req.LinkedToEarlierSickness); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return absence.CreateResult{}, absence.ErrRecurrenceTarget
			}
			return absence.CreateResult{}, fmt.Errorf("failed to get linked record: %w", err)
		}
	}

	record := absence.AbsenceRecord{
		EmployeeID:                emp.ID,
		StartDate:                 startDate,
		EndDate:                   endDate,
		NumberOfDays:              numberOfDays,
		Category:                  req.CategoryOrDefault(),
		Reason:                    req.Reason,
		Symptoms:                  req.Symptoms,
		RequiresDocumentation:     RequiresDocumentation(numberOfDays, req.RequiresNote),
		DocumentationProvided:     req.DocumentationProvided,
		Status:                    absence.StatusPending,
		CreatedByUserID:           actor.UserID,
		CreatedByRole:             actor.Role,
		IsAdminCreated:            onBehalf,
		LinkedToEarlierSicknessID: req.LinkedToEarlierSickness,
	}

	if onBehalf {
		now := time.Now()
		comment := "Filed and approved on the employee's behalf"
		role := string(actor.Role)
		record.Status = absence.StatusApproved
		record.ApprovalUserID = &actor.UserID
		record.ApprovalRole = &role
		record.ApprovalComments = &comment
		record.ApprovedAt = &now
	}

	// The overlap check and the insert run in one transaction so two
	// concurrent requests cannot both pass validation and persist.
	var created absence.AbsenceRecord
	var overridden []absence.AbsenceRecord
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		overlaps, err := s.AbsenceRepository.FindOverlapping(txCtx, emp.ID, startDate, endDate, nil)
		if err != nil {
			return fmt.Errorf("failed to check overlapping absence records: %w", err)
		}
		if len(overlaps) > 0 {
			if !onBehalf || !s.cfg.AdminOverlapOverride {
				return &absence.OverlapError{Records: overlaps}
			}
			overridden = overlaps
		}

		created, err = s.AbsenceRepository.Create(txCtx, record)
		if err != nil {
			return fmt.Errorf("failed to create absence record: %w", err)
		}
		return nil
	})
	if err != nil {
		return absence.CreateResult{}, err
	}

	s.notifyCreated(ctx, created, emp, actor, onBehalf)

	return absence.CreateResult{Record: created, OverriddenOverlaps: overridden}, nil
}

// withTx runs fn inside a transaction when a pool is configured. Without one
// fn runs directly against the repositories.
func (s *RecordService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

// GetByID returns a single record, restricted to the owning employee unless
// the caller may view all records.
func (s *RecordService) GetByID(ctx context.Context, actor user.Identity, id string) (absence.AbsenceRecord, error) {
	record, err := s.AbsenceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.AbsenceRecord{}, absence.ErrRecordNotFound
		}
		return absence.AbsenceRecord{}, fmt.Errorf("failed to get absence record by ID: %w", err)
	}

	if !actor.Can(user.PermissionAbsenceViewAll) && !actor.OwnsEmployee(record.EmployeeID) {
		return absence.AbsenceRecord{}, user.ErrInsufficientPermissions
	}

	return record, nil
}

// ListForEmployee returns the employee's records matching the query, the
// statistics over them, and the current-year Bradford score.
func (s *RecordService) ListForEmployee(ctx context.Context, actor user.Identity, employeeID string, query absence.ListQuery) (absence.EmployeeReport, error) {
	if !actor.Can(user.PermissionAbsenceViewAll) && !actor.OwnsEmployee(employeeID) {
		return absence.EmployeeReport{}, user.ErrInsufficientPermissions
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.EmployeeReport{}, employee.ErrEmployeeNotFound
		}
		return absence.EmployeeReport{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	filter := absence.ListFilter{}
	if query.StartDate != "" {
		start, _ := time.Parse("2006-01-02", query.StartDate)
		filter.StartDate = &start
	}
	if query.EndDate != "" {
		end, _ := time.Parse("2006-01-02", query.EndDate)
		filter.EndDate = &end
	}
	if query.Status != "" {
		status := absence.Status(query.Status)
		filter.Status = &status
	}

	records, err := s.AbsenceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return absence.EmployeeReport{}, fmt.Errorf("failed to list absence records: %w", err)
	}

	now := time.Now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	approved, err := s.AbsenceRepository.ListApprovedStartingBetween(ctx, employeeID, yearStart, yearEnd)
	if err != nil {
		return absence.EmployeeReport{}, fmt.Errorf("failed to list approved absence records: %w", err)
	}

	return absence.EmployeeReport{
		Records:    records,
		Statistics: CalculateStatistics(records),
		Bradford:   CalculateBradford(approved, yearStart, yearEnd),
	}, nil
}

// ListPending returns every record awaiting resolution.
func (s *RecordService) ListPending(ctx context.Context) ([]absence.AbsenceRecord, error) {
	records, err := s.AbsenceRepository.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending absence records: %w", err)
	}
	return records, nil
}

// Approve resolves a pending record. The update is conditional on the record
// still being pending, so concurrent resolutions cannot both win.
func (s *RecordService) Approve(ctx context.Context, actor user.Identity, recordID string, adminNotes *string) (absence.AbsenceRecord, error) {
	comments := defaultApprovalComment
	if adminNotes != nil && *adminNotes != "" {
		comments = *adminNotes
	}

	updated, err := s.AbsenceRepository.Resolve(ctx, absence.Resolution{
		ID:          recordID,
		Status:      absence.StatusApproved,
		ActorUserID: actor.UserID,
		ActorRole:   actor.Role,
		Comments:    &comments,
		ResolvedAt:  time.Now(),
	})
	if err != nil {
		return absence.AbsenceRecord{}, s.resolveFailure(ctx, recordID, err)
	}

	s.notifyResolved(ctx, updated, actor, notification.TypeAbsenceApproved)

	return updated, nil
}

// Reject resolves a pending record with a mandatory reason.
func (s *RecordService) Reject(ctx context.Context, actor user.Identity, recordID string, rejectionReason string) (absence.AbsenceRecord, error) {
	updated, err := s.AbsenceRepository.Resolve(ctx, absence.Resolution{
		ID:              recordID,
		Status:          absence.StatusRejected,
		ActorUserID:     actor.UserID,
		ActorRole:       actor.Role,
		RejectionReason: &rejectionReason,
		ResolvedAt:      time.Now(),
	})
	if err != nil {
		return absence.AbsenceRecord{}, s.resolveFailure(ctx, recordID, err)
	}

	s.notifyResolved(ctx, updated, actor, notification.TypeAbsenceRejected)

	return updated, nil
}

// resolveFailure turns a zero-row conditional update into the right domain
// error: the record is either missing or no longer pending.
func (s *RecordService) resolveFailure(ctx context.Context, recordID string, err error) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to resolve absence record: %w", err)
	}

	current, getErr := s.AbsenceRepository.GetByID(ctx, recordID)
	if getErr != nil {
		return absence.ErrRecordNotFound
	}
	return &absence.InvalidStateError{Current: current.Status}
}

// SetReturnToWork annotates a record with return-to-work metadata.
func (s *RecordService) SetReturnToWork(ctx context.Context, actor user.Identity, recordID string, req absence.ReturnToWorkRequest) (absence.AbsenceRecord, error) {
	record, err := s.AbsenceRepository.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.AbsenceRecord{}, absence.ErrRecordNotFound
		}
		return absence.AbsenceRecord{}, fmt.Errorf("failed to get absence record by ID: %w", err)
	}

	if !actor.Can(user.PermissionAbsenceApprove) && !actor.OwnsEmployee(record.EmployeeID) {
		return absence.AbsenceRecord{}, user.ErrInsufficientPermissions
	}

	rtw := absence.ReturnToWork{
		FitForWork:            req.FitForWork,
		RestrictionsOnReturn:  req.RestrictionsOnReturn,
		DocumentationProvided: req.DocumentationProvided,
	}
	if req.ActualReturnDate != nil {
		returnDate, parseErr := time.Parse("2006-01-02", *req.ActualReturnDate)
		if parseErr != nil {
			return absence.AbsenceRecord{}, fmt.Errorf("failed to parse actual return date: %w", parseErr)
		}
		rtw.ActualReturnDate = &returnDate
	}

	updated, err := s.AbsenceRepository.UpdateReturnToWork(ctx, recordID, rtw)
	if err != nil {
		return absence.AbsenceRecord{}, fmt.Errorf("failed to update return-to-work data: %w", err)
	}

	s.notifyAdmins(ctx, notification.CreateNotificationRequest{
		SenderID: &actor.UserID,
		Type:     notification.TypeReturnToWork,
		Title:    "Return to work recorded",
		Message:  fmt.Sprintf("A return to work was recorded for absence %s", recordID),
		Data:     map[string]interface{}{"absence_id": recordID},
	})

	return updated, nil
}

// Delete hard-deletes a record. Route-level authorization restricts this to
// admins.
func (s *RecordService) Delete(ctx context.Context, recordID string) error {
	if err := s.AbsenceRepository.Delete(ctx, recordID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete absence record: %w", err)
	}
	return nil
}

// notifyCreated fans out creation notifications. Failures are logged and
// never fail the creation.
func (s *RecordService) notifyCreated(ctx context.Context, record absence.AbsenceRecord, emp employee.Employee, actor user.Identity, onBehalf bool) {
	if s.notifier == nil {
		return
	}

	data := map[string]interface{}{
		"absence_id": record.ID,
		"start_date": record.StartDate.Format("2006-01-02"),
		"end_date":   record.EndDate.Format("2006-01-02"),
	}

	if onBehalf {
		if emp.UserID != nil {
			err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
				RecipientID: *emp.UserID,
				SenderID:    &actor.UserID,
				Type:        notification.TypeAbsenceFiled,
				Title:       "Absence recorded",
				Message:     fmt.Sprintf("An absence from %s to %s was filed and approved on your behalf", record.StartDate.Format("2006-01-02"), record.EndDate.Format("2006-01-02")),
				Data:        data,
			})
			if err != nil {
				slog.Error("failed to queue absence-filed notification", "error", err, "absence_id", record.ID)
			}
		}
		s.notifyAdmins(ctx, notification.CreateNotificationRequest{
			SenderID: &actor.UserID,
			Type:     notification.TypeAbsenceFiled,
			Title:    "Absence filed on behalf",
			Message:  fmt.Sprintf("%s filed an absence for %s", actor.Email, emp.FullName),
			Data:     data,
		})
		return
	}

	s.notifyAdmins(ctx, notification.CreateNotificationRequest{
		SenderID: &actor.UserID,
		Type:     notification.TypeAbsenceSubmitted,
		Title:    "New absence request",
		Message:  fmt.Sprintf("%s requested absence from %s to %s", emp.FullName, record.StartDate.Format("2006-01-02"), record.EndDate.Format("2006-01-02")),
		Data:     data,
	})
}

// notifyResolved tells the affected employee about an approval or rejection.
func (s *RecordService) notifyResolved(ctx context.Context, record absence.AbsenceRecord, actor user.Identity, notifType notification.NotificationType) {
	if s.notifier == nil {
		return
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, record.EmployeeID)
	if err != nil || emp.UserID == nil {
		return
	}

	title := "Absence request approved"
	message := fmt.Sprintf("Your absence from %s to %s was approved", record.StartDate.Format("2006-01-02"), record.EndDate.Format("2006-01-02"))
	if notifType == notification.TypeAbsenceRejected {
		title = "Absence request rejected"
		message = fmt.Sprintf("Your absence from %s to %s was rejected", record.StartDate.Format("2006-01-02"), record.EndDate.Format("2006-01-02"))
	}

	err = s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: *emp.UserID,
		SenderID:    &actor.UserID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		Data:        map[string]interface{}{"absence_id": record.ID},
	})
	if err != nil {
		slog.Error("failed to queue absence resolution notification", "error", err, "absence_id", record.ID)
	}
}

// notifyAdmins queues a copy of req for every user holding an admin role.
func (s *RecordService) notifyAdmins(ctx context.Context, req notification.CreateNotificationRequest) {
	if s.notifier == nil {
		return
	}

	recipients, err := s.UserRepository.ListIDsByRoles(ctx, adminRoles)
	if err != nil {
		slog.Error("failed to list admin notification recipients", "error", err)
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, recipientID := range recipients {
		copyReq := req
		copyReq.RecipientID = recipientID
		reqs = append(reqs, copyReq)
	}
	if err := s.notifier.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("failed to queue admin notifications", "error", err)
	}
}
