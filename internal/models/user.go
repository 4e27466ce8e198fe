package models

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateUserRequest represents the request body for creating a staff account
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     Role   `json:"role" validate:"required,oneof=ADMIN STAFF"`
}

// UpdateUserRequest is a partial update; Password is re-hashed when present
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=ADMIN STAFF"`
}

func (u *UpdateUserRequest) Apply(user *User) {
	if u.Username != nil {
		user.Username = *u.Username
	}
	if u.FullName != nil {
		user.FullName = *u.FullName
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
}
