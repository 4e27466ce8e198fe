package repositories

import (
	"context"

	"dorm-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const assetColumns = `id, name, room_id, status, value, created_at, updated_at`

type PgAssetRepository struct {
	DB querier
}

func NewPgAssetRepository(db querier) *PgAssetRepository {
	return &PgAssetRepository{DB: db}
}

func scanAsset(row pgx.Row) (*models.Asset, error) {
	var a models.Asset
	if err := row.Scan(&a.ID, &a.Name, &a.RoomID, &a.Status, &a.Value, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgAssetRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Asset, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "asset", "")
	}
	defer rows.Close()

	assets := []*models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, mapError(err, "asset", "")
		}
		assets = append(assets, a)
	}
	return assets, mapError(rows.Err(), "asset", "")
}

func (r *PgAssetRepository) List(ctx context.Context) ([]*models.Asset, error) {
	return r.query(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY created_at, id`)
}

func (r *PgAssetRepository) ListByRoom(ctx context.Context, roomID string) ([]*models.Asset, error) {
	return r.query(ctx, `SELECT `+assetColumns+` FROM assets WHERE room_id=$1 ORDER BY created_at, id`, roomID)
}

func (r *PgAssetRepository) Get(ctx context.Context, id string) (*models.Asset, error) {
	a, err := scanAsset(r.DB.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "asset", id)
	}
	return a, nil
}

func (r *PgAssetRepository) Create(ctx context.Context, a *models.Asset) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO assets(id, name, room_id, status, value) VALUES($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		a.ID, a.Name, a.RoomID, a.Status, a.Value,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return mapError(err, "asset", a.ID)
}

func (r *PgAssetRepository) Update(ctx context.Context, a *models.Asset) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE assets SET name=$2, room_id=$3, status=$4, value=$5, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		a.ID, a.Name, a.RoomID, a.Status, a.Value,
	).Scan(&a.UpdatedAt)
	return mapError(err, "asset", a.ID)
}

func (r *PgAssetRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM assets WHERE id=$1`, id)
	if err != nil {
		return mapError(err, "asset", id)
	}
	return notFoundOnZero(tag, "asset", id)
}

func (r *PgAssetRepository) DeleteByRoom(ctx context.Context, roomID string) (int, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM assets WHERE room_id=$1`, roomID)
	if err != nil {
		return 0, mapError(err, "asset", "")
	}
	return int(tag.RowsAffected()), nil
}
