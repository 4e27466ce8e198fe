package models

import "time"

type Guest struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CCCD         string    `json:"cccd"` // citizen ID number
	Relation     string    `json:"relation"`
	RoomID       string    `json:"room_id"`
	CheckInDate  string    `json:"check_in_date"`
	CheckOutDate string    `json:"check_out_date,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (g *Guest) Occupant() Occupant {
	return Occupant{Kind: OccupantGuest, ID: g.ID, RoomID: g.RoomID}
}

// CreateGuestRequest represents a guest check-in
type CreateGuestRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	CCCD         string `json:"cccd" validate:"required,max=20"`
	Relation     string `json:"relation" validate:"omitempty,max=50"`
	RoomID       string `json:"room_id" validate:"required"`
	CheckInDate  string `json:"check_in_date" validate:"omitempty,datetime=2006-01-02"`
	CheckOutDate string `json:"check_out_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateGuestRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	CCCD         *string `json:"cccd" validate:"omitempty,min=1,max=20"`
	Relation     *string `json:"relation" validate:"omitempty,max=50"`
	RoomID       *string `json:"room_id" validate:"omitempty,min=1"`
	CheckInDate  *string `json:"check_in_date" validate:"omitempty,datetime=2006-01-02"`
	CheckOutDate *string `json:"check_out_date" validate:"omitempty,datetime=2006-01-02"`
}

func (u *UpdateGuestRequest) Apply(g *Guest) {
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.CCCD != nil {
		g.CCCD = *u.CCCD
	}
	if u.Relation != nil {
		g.Relation = *u.Relation
	}
	if u.RoomID != nil {
		g.RoomID = *u.RoomID
	}
	if u.CheckInDate != nil {
		g.CheckInDate = *u.CheckInDate
	}
	if u.CheckOutDate != nil {
		g.CheckOutDate = *u.CheckOutDate
	}
}

// ValidStay reports whether the check-out date (if any) is not before check-in.
// Dates are YYYY-MM-DD so string order is chronological.
func (g *Guest) ValidStay() bool {
	return g.CheckOutDate == "" || g.CheckInDate == "" || g.CheckOutDate >= g.CheckInDate
}
