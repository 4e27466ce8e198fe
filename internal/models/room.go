package models

import "time"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomFull        RoomStatus = "FULL"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomFull, RoomMaintenance:
		return true
	}
	return false
}

type Room struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	BuildingID      string     `json:"building_id"`
	Status          RoomStatus `json:"status"`
	MaxCapacity     int        `json:"max_capacity"`
	CurrentCapacity int        `json:"current_capacity"` // derived from occupants, never client-set
	PricePerMonth   int64      `json:"price_per_month"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DeriveRoomStatus is the room state machine.
//
// Occupants clear a stored MAINTENANCE flag. Outside maintenance the status is
// FULL when current >= max and AVAILABLE otherwise.
func DeriveRoomStatus(stored RoomStatus, current, capacity int) RoomStatus {
	switch stored {
	case RoomMaintenance:
		if current == 0 {
			return RoomMaintenance
		}
	case RoomAvailable, RoomFull:
	default:
		// unknown stored values are recomputed from capacity
	}
	if current >= capacity {
		return RoomFull
	}
	return RoomAvailable
}

// Refresh re-derives Status from the capacity fields
func (r *Room) Refresh() {
	r.Status = DeriveRoomStatus(r.Status, r.CurrentCapacity, r.MaxCapacity)
}

func (r *Room) HasOccupants() bool {
	return r.CurrentCapacity > 0
}

// CreateRoomRequest represents the request body for creating a room.
// A new room starts empty; Status may only request MAINTENANCE, any other
// value is re-derived.
type CreateRoomRequest struct {
	Name          string      `json:"name" validate:"required,max=50"`
	BuildingID    string      `json:"building_id" validate:"required"`
	Status        *RoomStatus `json:"status" validate:"omitempty,oneof=AVAILABLE FULL MAINTENANCE"`
	MaxCapacity   int         `json:"max_capacity" validate:"required,min=1"`
	PricePerMonth int64       `json:"price_per_month" validate:"min=0,max=1000000000000000"`
}

// UpdateRoomRequest is a partial update. Capacity and status changes must be
// checked by the occupancy engine before Apply.
type UpdateRoomRequest struct {
	Name          *string     `json:"name" validate:"omitempty,min=1,max=50"`
	BuildingID    *string     `json:"building_id" validate:"omitempty,min=1"`
	Status        *RoomStatus `json:"status" validate:"omitempty,oneof=AVAILABLE FULL MAINTENANCE"`
	MaxCapacity   *int        `json:"max_capacity" validate:"omitempty,min=1"`
	PricePerMonth *int64      `json:"price_per_month" validate:"omitempty,min=0,max=1000000000000000"`
}

func (u *UpdateRoomRequest) Apply(r *Room) {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.BuildingID != nil {
		r.BuildingID = *u.BuildingID
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.MaxCapacity != nil {
		r.MaxCapacity = *u.MaxCapacity
	}
	if u.PricePerMonth != nil {
		r.PricePerMonth = *u.PricePerMonth
	}
	r.Refresh()
}
