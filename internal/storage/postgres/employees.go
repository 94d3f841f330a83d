package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrperf/internal/domain/employee"
)

const employeeColumns = `employee_id, name, email, password_hash, department, position, hire_date, role, mfa_enabled, mfa_secret, created_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(&emp.EmployeeID, &emp.Name, &emp.Email, &emp.PasswordHash, &emp.Department, &emp.Position,
		&emp.HireDate, &emp.Role, &emp.MFAEnabled, &emp.MFASecret, &emp.CreatedAt)
	return emp, err
}

func (s *Store) FindByID(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1`, employeeID))
	if err != nil {
		return employee.Employee{}, mapError(err, "employee "+employeeID)
	}
	return emp, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (employee.Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return employee.Employee{}, mapError(err, "employee email")
	}
	return emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY employee_id`)
	if err != nil {
		return nil, mapError(err, "list employees")
	}
	defer rows.Close()

	out := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, mapError(err, "scan employee")
		}
		out = append(out, emp)
	}
	return out, mapError(rows.Err(), "list employees")
}

func (s *Store) CreateEmployee(ctx context.Context, emp *employee.Employee) error {
	emp.Email = strings.ToLower(emp.Email)
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (employee_id, name, email, password_hash, department, position, hire_date, role, mfa_enabled, mfa_secret, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `, emp.EmployeeID, emp.Name, emp.Email, emp.PasswordHash, emp.Department, emp.Position,
		emp.HireDate, emp.Role, emp.MFAEnabled, emp.MFASecret, emp.CreatedAt)
	return mapError(err, "employee "+emp.EmployeeID)
}

func (s *Store) UpdateMFA(ctx context.Context, employeeID string, secret []byte, enabled bool) error {
	tag, err := s.DB.Exec(ctx, `UPDATE employees SET mfa_secret = $1, mfa_enabled = $2 WHERE employee_id = $3`, secret, enabled, employeeID)
	if err != nil {
		return mapError(err, "employee "+employeeID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "employee "+employeeID)
	}
	return nil
}
