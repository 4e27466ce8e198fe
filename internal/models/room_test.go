package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRoomStatus(t *testing.T) {
	tests := []struct {
		name    string
		stored  RoomStatus
		current int
		max     int
		want    RoomStatus
	}{
		{"empty available", RoomAvailable, 0, 4, RoomAvailable},
		{"partially occupied", RoomAvailable, 2, 4, RoomAvailable},
		{"reaches capacity", RoomAvailable, 4, 4, RoomFull},
		{"full drops below capacity", RoomFull, 3, 4, RoomAvailable},
		{"empty maintenance stays", RoomMaintenance, 0, 4, RoomMaintenance},
		{"occupied maintenance clears", RoomMaintenance, 1, 4, RoomAvailable},
		{"occupied maintenance clears to full", RoomMaintenance, 1, 1, RoomFull},
		{"unknown status recomputed", RoomStatus("CLOSED"), 0, 2, RoomAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRoomStatus(tt.stored, tt.current, tt.max))
		})
	}
}

func TestUpdateRoomRequestApplyRefreshesStatus(t *testing.T) {
	room := &Room{Name: "A101", Status: RoomFull, MaxCapacity: 2, CurrentCapacity: 2}
	capacity := 4
	name := "A102"

	req := &UpdateRoomRequest{MaxCapacity: &capacity, Name: &name}
	req.Apply(room)

	assert.Equal(t, "A102", room.Name)
	assert.Equal(t, 4, room.MaxCapacity)
	assert.Equal(t, RoomAvailable, room.Status)
	assert.Equal(t, 2, room.CurrentCapacity)
}

func TestValidateRoomRequests(t *testing.T) {
	bad := RoomStatus("CLOSED")
	assert.Error(t, Validate(&CreateRoomRequest{Name: "A1", BuildingID: "b1", MaxCapacity: 0}))
	assert.Error(t, Validate(&UpdateRoomRequest{Status: &bad}))
	assert.NoError(t, Validate(&CreateRoomRequest{Name: "A1", BuildingID: "b1", MaxCapacity: 4}))
	assert.NoError(t, Validate(&UpdateRoomRequest{}))
}

func TestOccupantString(t *testing.T) {
	assert.Equal(t, "new guest", Occupant{Kind: OccupantGuest}.String())
	s := Student{ID: "s1", RoomID: "r1"}
	assert.Equal(t, "student s1", s.Occupant().String())
}
