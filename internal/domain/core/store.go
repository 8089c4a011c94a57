package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, COALESCE(user_id::text, ''), name, email, COALESCE(position, ''), COALESCE(branch, ''), hire_date, active, created_at
    FROM employees
    ORDER BY name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Email, &e.Position, &e.Branch, &e.HireDate, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(user_id::text, ''), name, email, COALESCE(position, ''), COALESCE(branch, ''), hire_date, active, created_at
    FROM employees
    WHERE id = $1
  `, id).Scan(&e.ID, &e.UserID, &e.Name, &e.Email, &e.Position, &e.Branch, &e.HireDate, &e.Active, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

// FindEmployeeByUserID resolves the employee record linked to a login
// account, when one exists.
func (s *Store) FindEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(user_id::text, ''), name, email, COALESCE(position, ''), COALESCE(branch, ''), hire_date, active, created_at
    FROM employees
    WHERE user_id = $1
  `, userID).Scan(&e.ID, &e.UserID, &e.Name, &e.Email, &e.Position, &e.Branch, &e.HireDate, &e.Active, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, user_id, name, email, position, branch, hire_date, active)
    VALUES ($1, NULLIF($2, '')::uuid, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
  `, id, e.UserID, e.Name, e.Email, e.Position, e.Branch, e.HireDate, e.Active)
	if err != nil {
		return "", err
	}
	return id, nil
}
