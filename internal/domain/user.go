package domain

import "time"

// Role determines which API surface a user may reach.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the domain model for account holders.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Phone        string
	CreatedAt    time.Time
}
