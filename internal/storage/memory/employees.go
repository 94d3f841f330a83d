package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/employee"
)

type employeeRow struct {
	seq int64
	emp employee.Employee
}

func (s *Store) FindByID(_ context.Context, employeeID string) (employee.Employee, error) {
	s.empMu.RLock()
	defer s.empMu.RUnlock()
	row, ok := s.employees[employeeID]
	if !ok {
		return employee.Employee{}, fmt.Errorf("employee %s: %w", employeeID, apperr.ErrNotFound)
	}
	return cloneEmployee(row.emp), nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (employee.Employee, error) {
	s.empMu.RLock()
	defer s.empMu.RUnlock()
	for _, row := range s.employees {
		if strings.EqualFold(row.emp.Email, email) {
			return cloneEmployee(row.emp), nil
		}
	}
	return employee.Employee{}, fmt.Errorf("employee email: %w", apperr.ErrNotFound)
}

// ListEmployees returns employees ordered by id.
func (s *Store) ListEmployees(_ context.Context) ([]employee.Employee, error) {
	s.empMu.RLock()
	out := make([]employee.Employee, 0, len(s.employees))
	for _, row := range s.employees {
		out = append(out, cloneEmployee(row.emp))
	}
	s.empMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (s *Store) CreateEmployee(_ context.Context, emp *employee.Employee) error {
	s.empMu.Lock()
	defer s.empMu.Unlock()
	if _, exists := s.employees[emp.EmployeeID]; exists {
		return fmt.Errorf("employee id %s: %w", emp.EmployeeID, apperr.ErrConflict)
	}
	for _, row := range s.employees {
		if strings.EqualFold(row.emp.Email, emp.Email) {
			return fmt.Errorf("employee email %s: %w", emp.Email, apperr.ErrConflict)
		}
	}
	s.employees[emp.EmployeeID] = &employeeRow{seq: s.nextSeq(), emp: cloneEmployee(*emp)}
	return nil
}

func (s *Store) UpdateMFA(_ context.Context, employeeID string, secret []byte, enabled bool) error {
	s.empMu.Lock()
	defer s.empMu.Unlock()
	row, ok := s.employees[employeeID]
	if !ok {
		return fmt.Errorf("employee %s: %w", employeeID, apperr.ErrNotFound)
	}
	row.emp.MFASecret = append([]byte(nil), secret...)
	row.emp.MFAEnabled = enabled
	return nil
}

func cloneEmployee(emp employee.Employee) employee.Employee {
	if emp.HireDate != nil {
		hired := *emp.HireDate
		emp.HireDate = &hired
	}
	if emp.MFASecret != nil {
		emp.MFASecret = append([]byte(nil), emp.MFASecret...)
	}
	return emp
}
