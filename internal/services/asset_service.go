package services

import (
	"context"

	"dorm-backend/internal/cache"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
)

type AssetService struct {
	store repositories.Store
}

func NewAssetService(store repositories.Store) *AssetService {
	return &AssetService{store: store}
}

func (s *AssetService) List(ctx context.Context, actor policy.Actor, roomID string) ([]*models.Asset, error) {
	if err := policy.Authorize(actor, policy.AssetRead); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (assets []*models.Asset, err error) {
		err = s.store.View(ctx, func(tx repositories.Tx) error {
			if roomID != "" {
				assets, err = tx.Assets().ListByRoom(ctx, roomID)
			} else {
				assets, err = tx.Assets().List(ctx)
			}
			return err
		})
		return assets, err
	}
	if roomID != "" {
		return load(ctx)
	}
	return cache.Fetch(ctx, cache.AssetsListKey, load)
}

func (s *AssetService) Get(ctx context.Context, actor policy.Actor, id string) (a *models.Asset, err error) {
	if err := policy.Authorize(actor, policy.AssetRead); err != nil {
		return nil, err
	}
	err = s.store.View(ctx, func(tx repositories.Tx) error {
		a, err = tx.Assets().Get(ctx, id)
		return err
	})
	return a, err
}

// requireRoom checks the referenced room exists; nil means the warehouse
func requireRoom(ctx context.Context, tx repositories.Tx, roomID *string) error {
	if roomID == nil {
		return nil
	}
	_, err := tx.Rooms().Get(ctx, *roomID)
	return err
}

// Create registers an asset in a room or, without room_id, in the warehouse
func (s *AssetService) Create(ctx context.Context, actor policy.Actor, req *models.CreateAssetRequest) (*models.Asset, error) {
	if err := policy.Authorize(actor, policy.AssetCreate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	asset := &models.Asset{Name: req.Name, Status: req.Status, Value: req.Value}
	if asset.Status == "" {
		asset.Status = models.AssetGood
	}
	if req.RoomID != nil && *req.RoomID != "" {
		id := *req.RoomID
		asset.RoomID = &id
	}

	err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		if err := requireRoom(ctx, tx, asset.RoomID); err != nil {
			return err
		}
		return tx.Assets().Create(ctx, asset)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateAssetCaches(ctx)
	return asset, nil
}

func (s *AssetService) Update(ctx context.Context, actor policy.Actor, id string, req *models.UpdateAssetRequest) (a *models.Asset, err error) {
	if err := policy.Authorize(actor, policy.AssetUpdate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		a, err = tx.Assets().Get(ctx, id)
		if err != nil {
			return err
		}
		req.Apply(a)
		if req.RoomID != nil {
			if err := requireRoom(ctx, tx, a.RoomID); err != nil {
				return err
			}
		}
		return tx.Assets().Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateAssetCaches(ctx)
	return a, nil
}

func (s *AssetService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := policy.Authorize(actor, policy.AssetDelete); err != nil {
		return err
	}
	if err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Assets().Delete(ctx, id)
	}); err != nil {
		return err
	}
	cache.InvalidateAssetCaches(ctx)
	return nil
}
