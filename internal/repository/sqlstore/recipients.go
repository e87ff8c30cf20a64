package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

const recipientColumns = `
	r.id, r.email, r.name, r.department_id, d.name, r.created_at
	FROM recipients r
	LEFT JOIN departments d ON d.id = r.department_id`

func scanRecipient(sc interface{ Scan(...any) error }) (domain.Recipient, error) {
	var (
		r        domain.Recipient
		name     sql.NullString
		deptID   sql.NullInt64
		deptName sql.NullString
	)
	if err := sc.Scan(&r.ID, &r.Email, &name, &deptID, &deptName, scanTime(&r.CreatedAt)); err != nil {
		return r, err
	}
	r.Name = nullableString(name)
	r.DepartmentName = nullableString(deptName)
	if deptID.Valid {
		id := deptID.Int64
		r.DepartmentID = &id
	}
	return r, nil
}

func (s *Store) queryRecipients(ctx context.Context, op, where string, args ...any) ([]domain.Recipient, error) {
	rows, err := s.db.QueryContext(ctx, s.q("SELECT "+recipientColumns+" "+where+" ORDER BY r.email"), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []domain.Recipient{}
	for rows.Next() {
		r, err := scanRecipient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullDept(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullName(name string) any {
	if name = strings.TrimSpace(name); name == "" {
		return nil
	}
	return name
}

// CreateRecipient inserts a recipient. A duplicate email returns ErrConflict,
// an unknown department ErrNotFound.
func (s *Store) CreateRecipient(ctx context.Context, r *domain.Recipient) error {
	now := s.now().UTC()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO recipients (email, name, department_id, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), r.Email, nullName(r.Name), nullDept(r.DepartmentID), s.dialect.timeArg(now)).Scan(&r.ID)
	if err != nil {
		return s.mapErr("create recipient", err)
	}
	r.CreatedAt = now
	return nil
}

// UpdateRecipient overwrites email, name and department.
func (s *Store) UpdateRecipient(ctx context.Context, r *domain.Recipient) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE recipients SET email = ?, name = ?, department_id = ? WHERE id = ?
	`), r.Email, nullName(r.Name), nullDept(r.DepartmentID), r.ID)
	if err != nil {
		return s.mapErr("update recipient", err)
	}
	return requireAffected(res, fmt.Sprintf("update recipient %d", r.ID))
}

// GetRecipient loads one recipient with its department name.
func (s *Store) GetRecipient(ctx context.Context, id int64) (*domain.Recipient, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+recipientColumns+" WHERE r.id = ?"), id)
	r, err := scanRecipient(row)
	if err != nil {
		return nil, s.mapErr(fmt.Sprintf("get recipient %d", id), err)
	}
	return &r, nil
}

// RecipientEmailExists reports whether the address is already registered.
func (s *Store) RecipientEmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM recipients WHERE email = ?`), email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check recipient email: %w", err)
	}
	return n > 0, nil
}

// ListRecipients returns all recipients ordered by email.
func (s *Store) ListRecipients(ctx context.Context) ([]domain.Recipient, error) {
	return s.queryRecipients(ctx, "list recipients", "")
}

// ListRecipientsByDepartment returns a department's recipients ordered by email.
func (s *Store) ListRecipientsByDepartment(ctx context.Context, departmentID int64) ([]domain.Recipient, error) {
	return s.queryRecipients(ctx, "list recipients by department", "WHERE r.department_id = ?", departmentID)
}

// ListAssignedRecipients returns every recipient that belongs to a department.
func (s *Store) ListAssignedRecipients(ctx context.Context) ([]domain.Recipient, error) {
	return s.queryRecipients(ctx, "list assigned recipients", "WHERE r.department_id IS NOT NULL")
}

// ListRecipientsInDepartments returns the union of the listed departments'
// recipients, each once, ordered by email.
func (s *Store) ListRecipientsInDepartments(ctx context.Context, departmentIDs []int64) ([]domain.Recipient, error) {
	if len(departmentIDs) == 0 {
		return []domain.Recipient{}, nil
	}
	marks, args := inClause(departmentIDs)
	return s.queryRecipients(ctx, "list recipients in departments", "WHERE r.department_id IN ("+marks+")", args...)
}

// DeleteRecipient removes a recipient; its events go with it.
func (s *Store) DeleteRecipient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM recipients WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete recipient: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("delete recipient %d", id))
}
