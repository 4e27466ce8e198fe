package services

import (
	"context"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/cache"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
)

type BuildingService struct {
	store repositories.Store
}

func NewBuildingService(store repositories.Store) *BuildingService {
	return &BuildingService{store: store}
}

func (s *BuildingService) List(ctx context.Context, actor policy.Actor) ([]*models.Building, error) {
	if err := policy.Authorize(actor, policy.BuildingRead); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, cache.BuildingsListKey, func(ctx context.Context) (buildings []*models.Building, err error) {
		err = s.store.View(ctx, func(tx repositories.Tx) error {
			buildings, err = tx.Buildings().List(ctx)
			return err
		})
		return buildings, err
	})
}

func (s *BuildingService) Get(ctx context.Context, actor policy.Actor, id string) (b *models.Building, err error) {
	if err := policy.Authorize(actor, policy.BuildingRead); err != nil {
		return nil, err
	}
	err = s.store.View(ctx, func(tx repositories.Tx) error {
		b, err = tx.Buildings().Get(ctx, id)
		return err
	})
	return b, err
}

func (s *BuildingService) Create(ctx context.Context, actor policy.Actor, req *models.CreateBuildingRequest) (*models.Building, error) {
	if err := policy.Authorize(actor, policy.BuildingCreate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	b := &models.Building{Name: req.Name}
	if err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Buildings().Create(ctx, b)
	}); err != nil {
		return nil, err
	}
	cache.InvalidateBuildingCaches(ctx)
	return b, nil
}

func (s *BuildingService) Update(ctx context.Context, actor policy.Actor, id string, req *models.UpdateBuildingRequest) (b *models.Building, err error) {
	if err := policy.Authorize(actor, policy.BuildingUpdate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		b, err = tx.Buildings().Get(ctx, id)
		if err != nil {
			return err
		}
		req.Apply(b)
		return tx.Buildings().Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateBuildingCaches(ctx)
	return b, nil
}

// Delete removes a building that no room references
func (s *BuildingService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := policy.Authorize(actor, policy.BuildingDelete); err != nil {
		return err
	}
	err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		b, err := tx.Buildings().Get(ctx, id)
		if err != nil {
			return err
		}
		rooms, err := tx.Rooms().ListByBuilding(ctx, id)
		if err != nil {
			return err
		}
		if len(rooms) > 0 {
			return apperr.New(apperr.BuildingInUse, "building %s still has %d rooms", b.Name, len(rooms))
		}
		return tx.Buildings().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	cache.InvalidateBuildingCaches(ctx)
	return nil
}
