package employee

import "hrperf/internal/domain/auth"

// DirectoryView strips contact and role fields unless the reader is hr or admin.
func DirectoryView(emp Employee, reader auth.Identity) DirectoryEntry {
	entry := DirectoryEntry{
		EmployeeID: emp.EmployeeID,
		Name:       emp.Name,
		Department: emp.Department,
		Position:   emp.Position,
	}
	if reader.Privileged() {
		entry.Email = emp.Email
		entry.Role = emp.Role
		entry.HireDate = emp.HireDate
	}
	return entry
}

func IdentityOf(emp Employee) auth.Identity {
	return auth.Identity{
		EmployeeID: emp.EmployeeID,
		Name:       emp.Name,
		Email:      emp.Email,
		Role:       emp.Role,
		Department: emp.Department,
		Position:   emp.Position,
	}
}
