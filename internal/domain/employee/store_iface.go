package employee

import (
	"context"
)

// Finder resolves employees by id. The authorization gate and the performance services
// only need this read side.
type Finder interface {
	FindByID(ctx context.Context, employeeID string) (Employee, error)
}

// Store is the credential store. Lookups return apperr.ErrNotFound when the employee is
// absent; CreateEmployee returns apperr.ErrConflict on a duplicate id or email.
type Store interface {
	Finder
	FindByEmail(ctx context.Context, email string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	CreateEmployee(ctx context.Context, emp *Employee) error
	UpdateMFA(ctx context.Context, employeeID string, secret []byte, enabled bool) error
}
