package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/peoplekit/absence-backend-go/internal/domain/employee"
	"github.com/peoplekit/absence-backend-go/internal/domain/notification"
	"github.com/peoplekit/absence-backend-go/internal/domain/user"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	user.UserRepository
	notifier notification.Service
}

func NewEmployeeService(employeeRepository employee.EmployeeRepository, userRepository user.UserRepository, notifier notification.Service) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepository,
		UserRepository:     userRepository,
		notifier:           notifier,
	}
}

// Create adds an employee to the directory. Email and employee code must be
// unique among non-deleted employees.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if _, err := s.EmployeeRepository.GetByEmail(ctx, req.Email); err == nil {
		return employee.Employee{}, employee.ErrEmailExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, fmt.Errorf("failed to check employee email: %w", err)
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to parse hire date: %w", err)
	}

	emp := employee.Employee{
		UserID:           req.UserID,
		EmployeeCode:     req.EmployeeCode,
		FullName:         req.FullName,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		Department:       req.Department,
		JobTitle:         req.JobTitle,
		HireDate:         hireDate,
		EmploymentStatus: employee.EmploymentStatusActive,
	}

	created, err := s.EmployeeRepository.Create(ctx, emp)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "employee_code") {
				return employee.Employee{}, employee.ErrEmployeeCodeExists
			}
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.notifyJoined(ctx, created)

	return created, nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	return emp, nil
}

// GetByUserID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user ID: %w", err)
	}
	return emp, nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.Employee, error) {
	employees, err := s.EmployeeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// Update applies the non-nil fields of req to the employee.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	emp, err := s.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}

	if req.Email != nil && *req.Email != emp.Email {
		if existing, err := s.EmployeeRepository.GetByEmail(ctx, *req.Email); err == nil && existing.ID != id {
			return employee.Employee{}, employee.ErrEmailExists
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, fmt.Errorf("failed to check employee email: %w", err)
		}
		emp.Email = *req.Email
	}
	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		emp.PhoneNumber = req.PhoneNumber
	}
	if req.Department != nil {
		emp.Department = req.Department
	}
	if req.JobTitle != nil {
		emp.JobTitle = req.JobTitle
	}

	if err := s.EmployeeRepository.Update(ctx, emp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return emp, nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) error {
	if err := s.EmployeeRepository.Deactivate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	return nil
}

func (s *EmployeeServiceImpl) notifyJoined(ctx context.Context, emp employee.Employee) {
	if s.notifier == nil {
		return
	}

	recipients, err := s.UserRepository.ListIDsByRoles(ctx, []user.Role{user.RoleAdmin, user.RoleHR})
	if err != nil {
		slog.Error("failed to list notification recipients", "error", err)
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, recipientID := range recipients {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: recipientID,
			Type:        notification.TypeEmployeeJoined,
			Title:       "Employee added",
			Message:     fmt.Sprintf("%s joined the directory", emp.FullName),
			Data:        map[string]interface{}{"employee_id": emp.ID},
		})
	}
	if err := s.notifier.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("failed to queue employee-joined notifications", "error", err)
	}
}
