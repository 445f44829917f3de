package dto

import "github.com/trth/performance-api/internal/models"

// CreateUserRequest provisions an application account.
type CreateUserRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	FullName string          `json:"fullName" validate:"required"`
	EmpCode  string          `json:"empCode" validate:"required"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN EMPLOYEE"`
}

// UpdateUserRequest adjusts an account. Nil fields are left untouched; a
// non-nil password is re-hashed before storage.
type UpdateUserRequest struct {
	Email    *string          `json:"email" validate:"omitempty,email"`
	Password *string          `json:"password" validate:"omitempty,min=8"`
	FullName *string          `json:"fullName"`
	EmpCode  *string          `json:"empCode"`
	Role     *models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN EMPLOYEE"`
	Active   *bool            `json:"active"`
}
