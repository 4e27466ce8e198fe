package repositories

import (
	"context"

	"dorm-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const roomColumns = `id, name, building_id, status, max_capacity, current_capacity, price_per_month, created_at, updated_at`

type PgRoomRepository struct {
	DB querier
}

func NewPgRoomRepository(db querier) *PgRoomRepository {
	return &PgRoomRepository{DB: db}
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var room models.Room
	err := row.Scan(&room.ID, &room.Name, &room.BuildingID, &room.Status, &room.MaxCapacity,
		&room.CurrentCapacity, &room.PricePerMonth, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *PgRoomRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Room, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "room", "")
	}
	defer rows.Close()

	rooms := []*models.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, mapError(err, "room", "")
		}
		rooms = append(rooms, room)
	}
	return rooms, mapError(rows.Err(), "room", "")
}

func (r *PgRoomRepository) List(ctx context.Context) ([]*models.Room, error) {
	return r.query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY created_at, id`)
}

func (r *PgRoomRepository) ListByBuilding(ctx context.Context, buildingID string) ([]*models.Room, error) {
	return r.query(ctx, `SELECT `+roomColumns+` FROM rooms WHERE building_id=$1 ORDER BY created_at, id`, buildingID)
}

func (r *PgRoomRepository) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := scanRoom(r.DB.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "room", id)
	}
	return room, nil
}

func (r *PgRoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO rooms(id, name, building_id, status, max_capacity, current_capacity, price_per_month)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		room.ID, room.Name, room.BuildingID, room.Status, room.MaxCapacity, room.CurrentCapacity, room.PricePerMonth,
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	return mapError(err, "room", room.ID)
}

func (r *PgRoomRepository) Update(ctx context.Context, room *models.Room) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE rooms SET name=$2, building_id=$3, status=$4, max_capacity=$5, current_capacity=$6,
		 price_per_month=$7, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		room.ID, room.Name, room.BuildingID, room.Status, room.MaxCapacity, room.CurrentCapacity, room.PricePerMonth,
	).Scan(&room.UpdatedAt)
	return mapError(err, "room", room.ID)
}

func (r *PgRoomRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	if err != nil {
		return mapError(err, "room", id)
	}
	return notFoundOnZero(tag, "room", id)
}
