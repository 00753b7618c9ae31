package models

import "time"

// Role is a user's authorization level.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// CanAuthor reports whether the role may create or modify course content.
func (r Role) CanAuthor() bool {
	return r == RoleTeacher || r == RoleAdmin
}

type User struct {
	ID             int64
	Email          string
	HashedPassword string
	Role           Role
	IsActive       bool
	CreatedAt      time.Time
}
