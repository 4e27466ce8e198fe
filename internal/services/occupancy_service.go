package services

import (
	"context"
	"errors"
	"log"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/metrics"
	"dorm-backend/internal/models"
	"dorm-backend/internal/repositories"
)

// OccupancyEngine keeps Room.CurrentCapacity and Room.Status consistent with
// the students and guests assigned to each room. Every method must run inside
// the caller's store transaction; nothing is committed here.
//
// Guests count toward capacity exactly like students.
type OccupancyEngine struct{}

func NewOccupancyEngine() *OccupancyEngine {
	return &OccupancyEngine{}
}

// RoomDeletion reports what a cascading room delete removed
type RoomDeletion struct {
	RoomID        string `json:"room_id"`
	AssetsDeleted int    `json:"assets_deleted"`
	BillsDeleted  int    `json:"bills_deleted"`
}

// roomLevel labels operations that are not about a single occupant
const roomLevel = "room"

func reject(subject string, err *apperr.Error) error {
	metrics.OccupancyRejections.WithLabelValues(string(err.Kind), subject).Inc()
	return err
}

// Assign places occ in targetRoomID. occ.RoomID is the room currently held
// (empty for a new occupant); a different non-empty RoomID makes this a move.
func (e *OccupancyEngine) Assign(ctx context.Context, tx repositories.Tx, occ models.Occupant, targetRoomID string) error {
	if occ.RoomID != "" && occ.RoomID == targetRoomID {
		// same room: nothing to count
		return nil
	}

	target, err := tx.Rooms().Get(ctx, targetRoomID)
	if err != nil {
		return err
	}
	switch target.Status {
	case models.RoomMaintenance:
		log.Printf("[Occupancy] %s refused by room %s: under maintenance", occ, target.Name)
		return reject(string(occ.Kind), apperr.New(apperr.RoomUnavailable, "room %s is under maintenance", target.Name))
	case models.RoomAvailable, models.RoomFull:
	}
	if target.CurrentCapacity >= target.MaxCapacity {
		log.Printf("[Occupancy] %s refused by room %s: full", occ, target.Name)
		return reject(string(occ.Kind), apperr.New(apperr.RoomFull, "room %s is full (%d/%d)", target.Name, target.CurrentCapacity, target.MaxCapacity))
	}

	if occ.RoomID != "" {
		if err := e.decrement(ctx, tx, occ); err != nil {
			return err
		}
		log.Printf("[Occupancy] %s moves from room %s to room %s", occ, occ.RoomID, target.ID)
	}

	target.CurrentCapacity++
	target.Refresh()
	if err := tx.Rooms().Update(ctx, target); err != nil {
		return err
	}

	op := "assign"
	if occ.RoomID != "" {
		op = "move"
	}
	metrics.OccupancyOperations.WithLabelValues(op, string(occ.Kind)).Inc()
	return nil
}

// Release frees the place held by occ. The count never drops below zero; a
// second release of the same occupant is tolerated, not rejected.
func (e *OccupancyEngine) Release(ctx context.Context, tx repositories.Tx, occ models.Occupant) error {
	if occ.RoomID == "" {
		return nil
	}
	if err := e.decrement(ctx, tx, occ); err != nil {
		return err
	}
	metrics.OccupancyOperations.WithLabelValues("release", string(occ.Kind)).Inc()
	return nil
}

func (e *OccupancyEngine) decrement(ctx context.Context, tx repositories.Tx, occ models.Occupant) error {
	room, err := tx.Rooms().Get(ctx, occ.RoomID)
	if errors.Is(err, apperr.NotFound) {
		log.Printf("[Occupancy] Room %s held by %s no longer exists", occ.RoomID, occ)
		return nil
	}
	if err != nil {
		return err
	}
	if room.CurrentCapacity > 0 {
		room.CurrentCapacity--
	}
	room.Refresh()
	return tx.Rooms().Update(ctx, room)
}

// ValidateCapacityChange rejects a max capacity below the current occupancy
func (e *OccupancyEngine) ValidateCapacityChange(room *models.Room, newMax int) error {
	if newMax < 1 {
		return reject(roomLevel, apperr.New(apperr.InvalidInput, "max capacity must be at least 1"))
	}
	if newMax < room.CurrentCapacity {
		return reject(roomLevel, apperr.New(apperr.InvalidCapacity,
			"room %s has %d occupants; max capacity cannot be lowered to %d", room.Name, room.CurrentCapacity, newMax))
	}
	return nil
}

// ValidateStatusChange allows MAINTENANCE only on an empty room. Other
// requested values are accepted and then re-derived from capacity.
func (e *OccupancyEngine) ValidateStatusChange(room *models.Room, requested models.RoomStatus) error {
	switch requested {
	case models.RoomMaintenance:
		if room.HasOccupants() {
			return reject(roomLevel, apperr.New(apperr.RoomOccupied,
				"room %s has %d occupants and cannot be put under maintenance", room.Name, room.CurrentCapacity))
		}
	case models.RoomAvailable, models.RoomFull:
	default:
		return apperr.New(apperr.InvalidInput, "unknown room status %q", requested)
	}
	return nil
}

// Occupants counts the students and guests referencing roomID
func (e *OccupancyEngine) Occupants(ctx context.Context, tx repositories.Tx, roomID string) (int, error) {
	students, err := tx.Students().CountByRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}
	guests, err := tx.Guests().CountByRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}
	return students + guests, nil
}

// DeleteRoom removes an empty room together with its assets and bills
func (e *OccupancyEngine) DeleteRoom(ctx context.Context, tx repositories.Tx, roomID string) (*RoomDeletion, error) {
	room, err := tx.Rooms().Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	n, err := e.Occupants(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, reject(roomLevel, apperr.New(apperr.RoomOccupied, "room %s still has %d occupants", room.Name, n))
	}

	assets, err := tx.Assets().DeleteByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	bills, err := tx.Bills().DeleteByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := tx.Rooms().Delete(ctx, roomID); err != nil {
		return nil, err
	}
	metrics.OccupancyOperations.WithLabelValues("delete_room", roomLevel).Inc()
	return &RoomDeletion{RoomID: roomID, AssetsDeleted: assets, BillsDeleted: bills}, nil
}

// Recount repairs CurrentCapacity from the occupants actually referencing the
// room. Finding occupants in a MAINTENANCE room clears the flag.
func (e *OccupancyEngine) Recount(ctx context.Context, tx repositories.Tx, roomID string) (*models.Room, error) {
	room, err := tx.Rooms().Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	n, err := e.Occupants(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	if n > room.MaxCapacity {
		return nil, reject(roomLevel, apperr.New(apperr.InvalidCapacity,
			"room %s has %d occupants but max capacity %d; raise max capacity first", room.Name, n, room.MaxCapacity))
	}
	if n != room.CurrentCapacity {
		log.Printf("[Occupancy] Recount room %s: %d -> %d", room.Name, room.CurrentCapacity, n)
	}
	room.CurrentCapacity = n
	room.Refresh()
	if err := tx.Rooms().Update(ctx, room); err != nil {
		return nil, err
	}
	metrics.OccupancyOperations.WithLabelValues("recount", roomLevel).Inc()
	return room, nil
}
