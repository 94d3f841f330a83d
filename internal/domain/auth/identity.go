package auth

// Identity is the authenticated caller attached to a request.
type Identity struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

func (i Identity) Privileged() bool {
	return IsPrivileged(i.Role)
}
