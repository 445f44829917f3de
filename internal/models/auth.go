package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo is the public account shape embedded in auth responses.
type UserInfo struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	EmpCode  string   `json:"emp_code"`
	Role     UserRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens. EmpCode carries the
// resolved employee identity used by permission checks and the approval
// workflow; IsAdmin is true only for the configured system admin.
type JWTClaims struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	EmpCode string   `json:"emp_code"`
	Role    UserRole `json:"role"`
	IsAdmin bool     `json:"is_admin"`
	jwt.RegisteredClaims
}
