package dto

// CreateOrgUnitRequest adds one entry to a settings list.
type CreateOrgUnitRequest struct {
	Name      string `json:"name" validate:"required"`
	SortOrder int    `json:"order" validate:"gte=0"`
}

// UpdateOrgUnitRequest renames or reorders a settings entry.
type UpdateOrgUnitRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"order" validate:"omitempty,gte=0"`
}
