package services

import (
	"context"
	"time"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/cache"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
	"dorm-backend/internal/timeutil"
)

type GuestService struct {
	store  repositories.Store
	engine *OccupancyEngine
	now    func() time.Time
}

func NewGuestService(store repositories.Store, engine *OccupancyEngine, now func() time.Time) *GuestService {
	if now == nil {
		now = timeutil.Now
	}
	return &GuestService{store: store, engine: engine, now: now}
}

func (s *GuestService) List(ctx context.Context, actor policy.Actor, roomID string) ([]*models.Guest, error) {
	if err := policy.Authorize(actor, policy.GuestRead); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (guests []*models.Guest, err error) {
		err = s.store.View(ctx, func(tx repositories.Tx) error {
			if roomID != "" {
				guests, err = tx.Guests().ListByRoom(ctx, roomID)
			} else {
				guests, err = tx.Guests().List(ctx)
			}
			return err
		})
		return guests, err
	}
	if roomID != "" {
		return load(ctx)
	}
	return cache.Fetch(ctx, cache.GuestsListKey, load)
}

func (s *GuestService) Get(ctx context.Context, actor policy.Actor, id string) (g *models.Guest, err error) {
	if err := policy.Authorize(actor, policy.GuestRead); err != nil {
		return nil, err
	}
	err = s.store.View(ctx, func(tx repositories.Tx) error {
		g, err = tx.Guests().Get(ctx, id)
		return err
	})
	return g, err
}

// CheckIn registers a guest in a room. The check-in date defaults to today.
func (s *GuestService) CheckIn(ctx context.Context, actor policy.Actor, req *models.CreateGuestRequest) (*models.Guest, error) {
	if err := policy.Authorize(actor, policy.GuestCreate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	guest := &models.Guest{
		Name:         req.Name,
		CCCD:         req.CCCD,
		Relation:     req.Relation,
		RoomID:       req.RoomID,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
	}
	if guest.CheckInDate == "" {
		guest.CheckInDate = timeutil.Format(s.now(), timeutil.DateLayout)
	}
	if !guest.ValidStay() {
		return nil, apperr.New(apperr.InvalidInput, "check-out date is before check-in date")
	}

	err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		if err := s.engine.Assign(ctx, tx, models.Occupant{Kind: models.OccupantGuest}, req.RoomID); err != nil {
			return err
		}
		return tx.Guests().Create(ctx, guest)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateGuestCaches(ctx)
	return guest, nil
}

// Update applies a partial update; a new room_id moves the guest
func (s *GuestService) Update(ctx context.Context, actor policy.Actor, id string, req *models.UpdateGuestRequest) (g *models.Guest, err error) {
	if err := policy.Authorize(actor, policy.GuestUpdate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		g, err = tx.Guests().Get(ctx, id)
		if err != nil {
			return err
		}
		occ := g.Occupant()
		req.Apply(g)
		if !g.ValidStay() {
			return apperr.New(apperr.InvalidInput, "check-out date is before check-in date")
		}
		if req.RoomID != nil {
			if err := s.engine.Assign(ctx, tx, occ, *req.RoomID); err != nil {
				return err
			}
		}
		return tx.Guests().Update(ctx, g)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateGuestCaches(ctx)
	return g, nil
}

// CheckOut removes the guest and frees their place
func (s *GuestService) CheckOut(ctx context.Context, actor policy.Actor, id string) error {
	if err := policy.Authorize(actor, policy.GuestCheckout); err != nil {
		return err
	}
	err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		g, err := tx.Guests().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.engine.Release(ctx, tx, g.Occupant()); err != nil {
			return err
		}
		return tx.Guests().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	cache.InvalidateGuestCaches(ctx)
	return nil
}
