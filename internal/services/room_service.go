package services

import (
	"context"
	"log"

	"dorm-backend/internal/cache"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
)

type RoomService struct {
	store  repositories.Store
	engine *OccupancyEngine
}

func NewRoomService(store repositories.Store, engine *OccupancyEngine) *RoomService {
	return &RoomService{store: store, engine: engine}
}

// RoomDetail is a room with everything that references it
type RoomDetail struct {
	*models.Room
	Students []*models.Student `json:"students"`
	Guests   []*models.Guest   `json:"guests"`
	Assets   []*models.Asset   `json:"assets"`
}

func (s *RoomService) List(ctx context.Context, actor policy.Actor, buildingID string) ([]*models.Room, error) {
	if err := policy.Authorize(actor, policy.RoomRead); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (rooms []*models.Room, err error) {
		err = s.store.View(ctx, func(tx repositories.Tx) error {
			if buildingID != "" {
				rooms, err = tx.Rooms().ListByBuilding(ctx, buildingID)
			} else {
				rooms, err = tx.Rooms().List(ctx)
			}
			return err
		})
		return rooms, err
	}
	if buildingID != "" {
		return load(ctx)
	}
	return cache.Fetch(ctx, cache.RoomsListKey, load)
}

func (s *RoomService) Get(ctx context.Context, actor policy.Actor, id string) (*RoomDetail, error) {
	if err := policy.Authorize(actor, policy.RoomRead); err != nil {
		return nil, err
	}
	var d RoomDetail
	err := s.store.View(ctx, func(tx repositories.Tx) (err error) {
		if d.Room, err = tx.Rooms().Get(ctx, id); err != nil {
			return err
		}
		if d.Students, err = tx.Students().ListByRoom(ctx, id); err != nil {
			return err
		}
		if d.Guests, err = tx.Guests().ListByRoom(ctx, id); err != nil {
			return err
		}
		d.Assets, err = tx.Assets().ListByRoom(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create adds an empty room to an existing building
func (s *RoomService) Create(ctx context.Context, actor policy.Actor, req *models.CreateRoomRequest) (*models.Room, error) {
	if err := policy.Authorize(actor, policy.RoomCreate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	room := &models.Room{
		Name:          req.Name,
		BuildingID:    req.BuildingID,
		Status:        models.RoomAvailable,
		MaxCapacity:   req.MaxCapacity,
		PricePerMonth: req.PricePerMonth,
	}
	if req.Status != nil {
		if err := s.engine.ValidateStatusChange(room, *req.Status); err != nil {
			return nil, err
		}
		room.Status = *req.Status
	}
	room.Refresh()

	err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		if _, err := tx.Buildings().Get(ctx, req.BuildingID); err != nil {
			return err
		}
		return tx.Rooms().Create(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateRoomCaches(ctx)
	return room, nil
}

// Update applies a partial update. Capacity and maintenance changes go
// through the occupancy engine; current capacity is never client-set.
func (s *RoomService) Update(ctx context.Context, actor policy.Actor, id string, req *models.UpdateRoomRequest) (room *models.Room, err error) {
	if err := policy.Authorize(actor, policy.RoomUpdate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		room, err = tx.Rooms().Get(ctx, id)
		if err != nil {
			return err
		}
		if req.BuildingID != nil && *req.BuildingID != room.BuildingID {
			if _, err := tx.Buildings().Get(ctx, *req.BuildingID); err != nil {
				return err
			}
		}
		if req.MaxCapacity != nil {
			if err := s.engine.ValidateCapacityChange(room, *req.MaxCapacity); err != nil {
				return err
			}
		}
		if req.Status != nil {
			if err := s.engine.ValidateStatusChange(room, *req.Status); err != nil {
				return err
			}
		}
		req.Apply(room)
		return tx.Rooms().Update(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateRoomCaches(ctx)
	return room, nil
}

// Delete removes an empty room and cascades to its assets and bills
func (s *RoomService) Delete(ctx context.Context, actor policy.Actor, id string) (del *RoomDeletion, err error) {
	if err := policy.Authorize(actor, policy.RoomDelete); err != nil {
		return nil, err
	}
	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		del, err = s.engine.DeleteRoom(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Room] %s deleted room %s (%d assets, %d bills)", actor.Username, id, del.AssetsDeleted, del.BillsDeleted)
	cache.InvalidateRoomDeleteCaches(ctx)
	return del, nil
}

// Recount re-derives the occupancy of a room from its occupants
func (s *RoomService) Recount(ctx context.Context, actor policy.Actor, id string) (room *models.Room, err error) {
	if err := policy.Authorize(actor, policy.RoomRecount); err != nil {
		return nil, err
	}
	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		room, err = s.engine.Recount(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateRoomCaches(ctx)
	return room, nil
}
