package domain

import "time"

// Role represents the access level of an account.
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for marketplace accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	ImageURL     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef is the populated view of a user embedded in other records.
type UserRef struct {
	ID    string
	Name  string
	Email string
}
