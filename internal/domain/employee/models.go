package employee

import "time"

type Employee struct {
	EmployeeID   string     `json:"employeeId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Department   string     `json:"department"`
	Position     string     `json:"position"`
	HireDate     *time.Time `json:"hireDate,omitempty"`
	Role         string     `json:"role"`
	MFAEnabled   bool       `json:"mfaEnabled"`
	MFASecret    []byte     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// DirectoryEntry is the listing view of an employee. Email, role and hire date are only
// populated for privileged readers.
type DirectoryEntry struct {
	EmployeeID string     `json:"employeeId"`
	Name       string     `json:"name"`
	Department string     `json:"department"`
	Position   string     `json:"position"`
	Email      string     `json:"email,omitempty"`
	Role       string     `json:"role,omitempty"`
	HireDate   *time.Time `json:"hireDate,omitempty"`
}

type CreateInput struct {
	EmployeeID string     `json:"employeeId" validate:"required,max=20"`
	Name       string     `json:"name" validate:"required,max=100"`
	Email      string     `json:"email" validate:"required,email,max=100"`
	Password   string     `json:"password" validate:"required,min=8,max=72"`
	Department string     `json:"department" validate:"max=50"`
	Position   string     `json:"position" validate:"max=50"`
	HireDate   *time.Time `json:"hireDate"`
	Role       string     `json:"role" validate:"omitempty,oneof=employee hr admin"`
}
