package models

// Role separates customers from the administrator.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PinHash      string // empty for the administrator
	Role         Role
}

// IsAdmin reports whether the user is the administrator.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
