package repositories

import (
	"context"

	"dorm-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PgBuildingRepository struct {
	DB querier
}

func NewPgBuildingRepository(db querier) *PgBuildingRepository {
	return &PgBuildingRepository{DB: db}
}

func scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PgBuildingRepository) List(ctx context.Context) ([]*models.Building, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, created_at, updated_at FROM buildings ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err, "building", "")
	}
	defer rows.Close()

	buildings := []*models.Building{}
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, mapError(err, "building", "")
		}
		buildings = append(buildings, b)
	}
	return buildings, mapError(rows.Err(), "building", "")
}

func (r *PgBuildingRepository) Get(ctx context.Context, id string) (*models.Building, error) {
	b, err := scanBuilding(r.DB.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM buildings WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "building", id)
	}
	return b, nil
}

func (r *PgBuildingRepository) Create(ctx context.Context, b *models.Building) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO buildings(id, name) VALUES($1, $2) RETURNING created_at, updated_at`,
		b.ID, b.Name,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	return mapError(err, "building", b.ID)
}

func (r *PgBuildingRepository) Update(ctx context.Context, b *models.Building) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE buildings SET name=$2, updated_at=NOW() WHERE id=$1 RETURNING updated_at`,
		b.ID, b.Name,
	).Scan(&b.UpdatedAt)
	return mapError(err, "building", b.ID)
}

func (r *PgBuildingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM buildings WHERE id=$1`, id)
	if err != nil {
		return mapError(err, "building", id)
	}
	return notFoundOnZero(tag, "building", id)
}
