package domain

import (
	"strings"
	"time"
)

// Role is the numeric role marker stored on users and carried in tokens.
type Role int

const (
	RoleAdministrator Role = 1
	RoleEmployee      Role = 2
	RoleCustomer      Role = 3
)

func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleEmployee || r == RoleCustomer
}

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FirstName    string    `json:"first_name" gorm:"size:100"`
	LastName     string    `json:"last_name" gorm:"size:100"`
	RoleID       Role      `json:"role_id" gorm:"not null;default:3"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// FullName returns "first last" with surrounding blanks trimmed.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Actor is the already-authenticated caller of a core operation.
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) IsAdministrator() bool { return a.Role == RoleAdministrator }

// Resolved reports whether the actor carries a usable identity.
func (a Actor) Resolved() bool {
	return a.UserID > 0 && a.Role.Valid()
}
