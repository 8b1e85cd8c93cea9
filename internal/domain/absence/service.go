package absence

import (
	"context"

	"github.com/peoplekit/absence-backend-go/internal/domain/user"
)

type Service interface {
	Create(ctx context.Context, actor user.Identity, req CreateAbsenceRequest) (CreateResult, error)
	GetByID(ctx context.Context, actor user.Identity, id string) (AbsenceRecord, error)
	ListForEmployee(ctx context.Context, actor user.Identity, employeeID string, query ListQuery) (EmployeeReport, error)
	ListPending(ctx context.Context) ([]AbsenceRecord, error)
	Approve(ctx context.Context, actor user.Identity, recordID string, adminNotes *string) (AbsenceRecord, error)
	Reject(ctx context.Context, actor user.Identity, recordID string, rejectionReason string) (AbsenceRecord, error)
	SetReturnToWork(ctx context.Context, actor user.Identity, recordID string, req ReturnToWorkRequest) (AbsenceRecord, error)
	Delete(ctx context.Context, recordID string) error
}
