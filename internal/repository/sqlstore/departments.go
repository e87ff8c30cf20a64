package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// CreateDepartment inserts a department. Duplicate names return ErrConflict.
func (s *Store) CreateDepartment(ctx context.Context, name string) (*domain.Department, error) {
	d := &domain.Department{Name: strings.TrimSpace(name)}
	now := s.now().UTC()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO departments (name, created_at) VALUES (?, ?)
		RETURNING id
	`), d.Name, s.dialect.timeArg(now)).Scan(&d.ID)
	if err != nil {
		return nil, s.mapErr("create department", err)
	}
	d.CreatedAt = now
	return d, nil
}

// GetDepartment loads one department with its recipient count.
func (s *Store) GetDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	d := &domain.Department{}
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT d.id, d.name, d.created_at, COUNT(r.id)
		FROM departments d
		LEFT JOIN recipients r ON r.department_id = d.id
		WHERE d.id = ?
		GROUP BY d.id, d.name, d.created_at
	`), id).Scan(&d.ID, &d.Name, scanTime(&d.CreatedAt), &d.RecipientCount)
	if err != nil {
		return nil, s.mapErr(fmt.Sprintf("get department %d", id), err)
	}
	return d, nil
}

// ListDepartments returns every department ordered by name.
func (s *Store) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.created_at, COUNT(r.id)
		FROM departments d
		LEFT JOIN recipients r ON r.department_id = d.id
		GROUP BY d.id, d.name, d.created_at
		ORDER BY d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	out := []domain.Department{}
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name, scanTime(&d.CreatedAt), &d.RecipientCount); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RenameDepartment changes a department's name.
func (s *Store) RenameDepartment(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE departments SET name = ? WHERE id = ?`), strings.TrimSpace(name), id)
	if err != nil {
		return s.mapErr("rename department", err)
	}
	return requireAffected(res, fmt.Sprintf("rename department %d", id))
}

// DeleteDepartment removes a department and detaches its recipients; the
// recipients themselves are kept.
func (s *Store) DeleteDepartment(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete department: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`UPDATE recipients SET department_id = NULL WHERE department_id = ?`), id); err != nil {
		return fmt.Errorf("detach recipients: %w", err)
	}
	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM departments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if err := requireAffected(res, fmt.Sprintf("delete department %d", id)); err != nil {
		return err
	}
	return tx.Commit()
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
