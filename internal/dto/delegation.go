package dto

import "github.com/trth/performance-api/internal/models"

// CreateDelegationRequest grants one permission within a date window.
type CreateDelegationRequest struct {
	DelegateeID string                      `json:"delegateeId" validate:"required"`
	Permission  models.DelegationPermission `json:"permission" validate:"required"`
	StartDate   string                      `json:"startDate" validate:"required"`
	EndDate     string                      `json:"endDate" validate:"required"`
	Reason      string                      `json:"reason"`
}

// UpdateDelegationRequest adjusts an existing grant. Nil fields are left
// untouched.
type UpdateDelegationRequest struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Reason    *string `json:"reason"`
	IsActive  *bool   `json:"isActive"`
}
