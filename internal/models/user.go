package models

import "time"

// User represents a registered account
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`

	// Eligible users (active and opted in) receive scheduled reports
	IsActive             bool `json:"is_active" db:"is_active"`
	ReceiveNotifications bool `json:"receive_notifications" db:"receive_notifications"`
}

// RegisterRequest represents a signup request
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
