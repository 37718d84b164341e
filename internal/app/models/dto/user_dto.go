package dto

import (
	"time"

	"github.com/yigit/greenfield/internal/app/models"
)

// UserResponse is the public view of a user; the password hash never leaves the service
type UserResponse struct {
	ID          int64       `json:"id" example:"1"`
	Email       string      `json:"email" example:"ann.lee@greenfield.edu"`
	FirstName   string      `json:"firstName" example:"Ann"`
	LastName    string      `json:"lastName" example:"Lee"`
	Role        models.Role `json:"role" example:"STUDENT"`
	RoleID      string      `json:"roleId" example:"STAL202601"`
	IsActive    bool        `json:"isActive" example:"true"`
	LastLoginAt *time.Time  `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewUserResponse strips internal fields from u.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		RoleID:      u.RoleID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewUserResponses converts a slice.
func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// UserSummary is the short form embedded in courses and rosters
type UserSummary struct {
	ID        int64  `json:"id" example:"3"`
	FirstName string `json:"firstName" example:"Sarah"`
	LastName  string `json:"lastName" example:"Johnson"`
	Email     string `json:"email" example:"sarah.johnson@greenfield.edu"`
	RoleID    string `json:"roleId" example:"FASJ202601"`
}

// NewUserSummary converts u.
func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, RoleID: u.RoleID}
}

// CreateUserRequest represents an admin creating an account
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email" example:"a@b.edu"`
	Password  string `json:"password" binding:"required,min=8" example:"pw123456"`
	FirstName string `json:"firstName" binding:"required,max=100" example:"Ann"`
	LastName  string `json:"lastName" binding:"required,max=100" example:"Lee"`
	Role      string `json:"role" binding:"required,role" example:"STUDENT" enums:"ADMIN,FACULTY,STUDENT"`
}

// UpdateUserRequest carries only the fields being changed
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	FirstName *string `json:"firstName,omitempty" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" binding:"omitempty,min=1,max=100"`
	Role      *string `json:"role,omitempty" binding:"omitempty,role"`
	Password  *string `json:"password,omitempty" binding:"omitempty,min=8"`
}

// UpdateUserStatusRequest activates or deactivates an account
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required" example:"false"`
}

// UserFilterRequest represents user filtering parameters
type UserFilterRequest struct {
	Role   string `form:"role" binding:"omitempty,role"`
	Search string `form:"search"`
	Active *bool  `form:"active"`
}

// UserListResponse represents a page of users
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// FacultyResponse is an active faculty member with the courses they teach
type FacultyResponse struct {
	UserSummary
	Courses []CourseSummary `json:"courses"`
}
