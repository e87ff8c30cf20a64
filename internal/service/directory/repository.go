package directory

import (
	"context"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// Repository defines the data access contract for departments and
// recipients. Unique violations return domain.ErrConflict; missing rows and
// unknown department references return domain.ErrNotFound.
type Repository interface {
	CreateDepartment(ctx context.Context, name string) (*domain.Department, error)
	GetDepartment(ctx context.Context, id int64) (*domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	RenameDepartment(ctx context.Context, id int64, name string) error
	// DeleteDepartment detaches the department's recipients, then removes it.
	DeleteDepartment(ctx context.Context, id int64) error

	CreateRecipient(ctx context.Context, r *domain.Recipient) error
	UpdateRecipient(ctx context.Context, r *domain.Recipient) error
	GetRecipient(ctx context.Context, id int64) (*domain.Recipient, error)
	RecipientEmailExists(ctx context.Context, email string) (bool, error)
	ListRecipients(ctx context.Context) ([]domain.Recipient, error)
	ListRecipientsByDepartment(ctx context.Context, departmentID int64) ([]domain.Recipient, error)
	// DeleteRecipient removes the recipient and, by cascade, its events.
	DeleteRecipient(ctx context.Context, id int64) error
}
