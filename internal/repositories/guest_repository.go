package repositories

import (
	"context"

	"dorm-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const guestColumns = `id, name, cccd, relation, room_id, check_in_date, check_out_date, created_at, updated_at`

type PgGuestRepository struct {
	DB querier
}

func NewPgGuestRepository(db querier) *PgGuestRepository {
	return &PgGuestRepository{DB: db}
}

func scanGuest(row pgx.Row) (*models.Guest, error) {
	var g models.Guest
	err := row.Scan(&g.ID, &g.Name, &g.CCCD, &g.Relation, &g.RoomID,
		&g.CheckInDate, &g.CheckOutDate, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PgGuestRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Guest, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "guest", "")
	}
	defer rows.Close()

	guests := []*models.Guest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, mapError(err, "guest", "")
		}
		guests = append(guests, g)
	}
	return guests, mapError(rows.Err(), "guest", "")
}

func (r *PgGuestRepository) List(ctx context.Context) ([]*models.Guest, error) {
	return r.query(ctx, `SELECT `+guestColumns+` FROM guests ORDER BY created_at, id`)
}

func (r *PgGuestRepository) ListByRoom(ctx context.Context, roomID string) ([]*models.Guest, error) {
	return r.query(ctx, `SELECT `+guestColumns+` FROM guests WHERE room_id=$1 ORDER BY created_at, id`, roomID)
}

func (r *PgGuestRepository) CountByRoom(ctx context.Context, roomID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM guests WHERE room_id=$1`, roomID).Scan(&n)
	return n, mapError(err, "guest", "")
}

func (r *PgGuestRepository) Get(ctx context.Context, id string) (*models.Guest, error) {
	g, err := scanGuest(r.DB.QueryRow(ctx, `SELECT `+guestColumns+` FROM guests WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "guest", id)
	}
	return g, nil
}

func (r *PgGuestRepository) Create(ctx context.Context, g *models.Guest) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO guests(id, name, cccd, relation, room_id, check_in_date, check_out_date)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		g.ID, g.Name, g.CCCD, g.Relation, g.RoomID, g.CheckInDate, g.CheckOutDate,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	return mapError(err, "guest", g.ID)
}

func (r *PgGuestRepository) Update(ctx context.Context, g *models.Guest) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE guests SET name=$2, cccd=$3, relation=$4, room_id=$5, check_in_date=$6,
		 check_out_date=$7, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		g.ID, g.Name, g.CCCD, g.Relation, g.RoomID, g.CheckInDate, g.CheckOutDate,
	).Scan(&g.UpdatedAt)
	return mapError(err, "guest", g.ID)
}

func (r *PgGuestRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM guests WHERE id=$1`, id)
	if err != nil {
		return mapError(err, "guest", id)
	}
	return notFoundOnZero(tag, "guest", id)
}
