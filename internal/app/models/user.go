package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"ann.lee@greenfield.edu"`
	Password    string     `json:"-" db:"password"` // bcrypt hash
	FirstName   string     `json:"firstName" db:"first_name" example:"Ann"`
	LastName    string     `json:"lastName" db:"last_name" example:"Lee"`
	Role        Role       `json:"role" db:"role" example:"STUDENT"`
	RoleID      string     `json:"roleId" db:"role_id" example:"STAL202601"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserFilter narrows user listings. Zero values are ignored.
type UserFilter struct {
	Role     Role
	Search   string
	IsActive *bool
}
