package domain

import "time"

// UserRole distinguishes citizens from administrative accounts.
type UserRole string

const (
	RoleCitizen         UserRole = "citizen"
	RoleDepartmentAdmin UserRole = "department_admin"
	RoleSuperAdmin      UserRole = "superadmin"
)

// User is the domain model for accounts. Department is only meaningful
// for department_admin accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Department   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds an administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleDepartmentAdmin || u.Role == RoleSuperAdmin
}
