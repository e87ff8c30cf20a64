package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// Service implements department and recipient management.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a directory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// DepartmentInput is the writable part of a department.
type DepartmentInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

// RecipientInput is the writable part of a recipient.
type RecipientInput struct {
	Email        string `json:"email" validate:"required,email,max=320"`
	Name         string `json:"name" validate:"max=200"`
	DepartmentID *int64 `json:"department_id" validate:"omitempty,gt=0"`
}

func (in *RecipientInput) normalize() {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// check runs struct validation and converts the first failure into a
// *domain.ValidationError.
func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.ValidationError{Field: jsonName(fe.Field()), Message: describe(fe)}
	}
	return &domain.ValidationError{Message: err.Error()}
}

func jsonName(field string) string {
	switch field {
	case "DepartmentID":
		return "department_id"
	}
	return strings.ToLower(field)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return "must be a positive id"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// CreateDepartment adds a department. Names are unique.
func (s *Service) CreateDepartment(ctx context.Context, in DepartmentInput) (*domain.Department, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(&in); err != nil {
		return nil, err
	}
	d, err := s.repo.CreateDepartment(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	logger.Info("department created", "department_id", d.ID, "name", d.Name)
	return d, nil
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	return s.repo.GetDepartment(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.repo.ListDepartments(ctx)
}

// RenameDepartment changes a department's name.
func (s *Service) RenameDepartment(ctx context.Context, id int64, in DepartmentInput) (*domain.Department, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(&in); err != nil {
		return nil, err
	}
	if err := s.repo.RenameDepartment(ctx, id, in.Name); err != nil {
		return nil, err
	}
	return s.repo.GetDepartment(ctx, id)
}

// DeleteDepartment removes a department. Its recipients are kept with no
// department.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return err
	}
	logger.Info("department deleted", "department_id", id)
	return nil
}

// DepartmentRecipients returns a department's members ordered by email.
func (s *Service) DepartmentRecipients(ctx context.Context, id int64) ([]domain.Recipient, error) {
	if _, err := s.repo.GetDepartment(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListRecipientsByDepartment(ctx, id)
}

// CreateRecipient adds a recipient. The email must be valid and unused and
// the department, when given, must exist.
func (s *Service) CreateRecipient(ctx context.Context, in RecipientInput) (*domain.Recipient, error) {
	in.normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}
	r := &domain.Recipient{Email: in.Email, Name: in.Name, DepartmentID: in.DepartmentID}
	if err := s.repo.CreateRecipient(ctx, r); err != nil {
		return nil, err
	}
	return s.repo.GetRecipient(ctx, r.ID)
}

// UpdateRecipient replaces a recipient's email, name and department.
func (s *Service) UpdateRecipient(ctx context.Context, id int64, in RecipientInput) (*domain.Recipient, error) {
	in.normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}
	r := &domain.Recipient{ID: id, Email: in.Email, Name: in.Name, DepartmentID: in.DepartmentID}
	if err := s.repo.UpdateRecipient(ctx, r); err != nil {
		return nil, err
	}
	return s.repo.GetRecipient(ctx, id)
}

func (s *Service) GetRecipient(ctx context.Context, id int64) (*domain.Recipient, error) {
	return s.repo.GetRecipient(ctx, id)
}

// ListRecipients returns recipients ordered by email, optionally only one
// department's.
func (s *Service) ListRecipients(ctx context.Context, departmentID *int64) ([]domain.Recipient, error) {
	if departmentID != nil {
		return s.repo.ListRecipientsByDepartment(ctx, *departmentID)
	}
	return s.repo.ListRecipients(ctx)
}

// DeleteRecipient removes a recipient together with its events.
func (s *Service) DeleteRecipient(ctx context.Context, id int64) error {
	return s.repo.DeleteRecipient(ctx, id)
}
