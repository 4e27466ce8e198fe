package models

import "time"

type Building struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateBuildingRequest represents the request body for creating a building
type CreateBuildingRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateBuildingRequest represents the request body for renaming a building
type UpdateBuildingRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

func (r *UpdateBuildingRequest) Apply(b *Building) {
	if r.Name != nil {
		b.Name = *r.Name
	}
}
