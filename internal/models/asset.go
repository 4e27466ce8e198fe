package models

import "time"

type AssetStatus string

const (
	AssetGood      AssetStatus = "GOOD"
	AssetBroken    AssetStatus = "BROKEN"
	AssetRepairing AssetStatus = "REPAIRING"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case AssetGood, AssetBroken, AssetRepairing:
		return true
	}
	return false
}

// WarehouseLabel is shown for assets not placed in any room
const WarehouseLabel = "Kho"

type Asset struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	RoomID    *string     `json:"room_id"` // nil = warehouse
	Status    AssetStatus `json:"status"`
	Value     int64       `json:"value"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (a Asset) Clone() Asset {
	if a.RoomID != nil {
		id := *a.RoomID
		a.RoomID = &id
	}
	return a
}

func (a *Asset) InRoom(roomID string) bool {
	return a.RoomID != nil && *a.RoomID == roomID
}

func (a *Asset) Location() string {
	if a.RoomID == nil {
		return WarehouseLabel
	}
	return *a.RoomID
}

type CreateAssetRequest struct {
	Name   string      `json:"name" validate:"required,max=100"`
	RoomID *string     `json:"room_id"`
	Status AssetStatus `json:"status" validate:"omitempty,oneof=GOOD BROKEN REPAIRING"`
	Value  int64       `json:"value" validate:"min=0"`
}

// UpdateAssetRequest is a partial update. An empty room_id moves the asset
// back to the warehouse.
type UpdateAssetRequest struct {
	Name   *string      `json:"name" validate:"omitempty,min=1,max=100"`
	RoomID *string      `json:"room_id"`
	Status *AssetStatus `json:"status" validate:"omitempty,oneof=GOOD BROKEN REPAIRING"`
	Value  *int64       `json:"value" validate:"omitempty,min=0"`
}

func (u *UpdateAssetRequest) Apply(a *Asset) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.RoomID != nil {
		if *u.RoomID == "" {
			a.RoomID = nil
		} else {
			id := *u.RoomID
			a.RoomID = &id
		}
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Value != nil {
		a.Value = *u.Value
	}
}
