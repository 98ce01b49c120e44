package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func ValidRole(role string) bool {
	switch UserRole(role) {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

// Branches a user can belong to.
var Branches = []string{"Chennai", "Coimbatore", "Trichy", "Madurai"}

func ValidBranch(branch string) bool {
	for _, b := range Branches {
		if b == branch {
			return true
		}
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         UserRole
	Branch       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
