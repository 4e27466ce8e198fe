package repositories

import (
	"context"

	"dorm-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const billColumns = `id, room_id, month, electric_index_old, electric_index_new, water_index_old, water_index_new,
	room_fee, total_amount, status, created_at, due_date, payment_date`

type PgBillRepository struct {
	DB querier
}

func NewPgBillRepository(db querier) *PgBillRepository {
	return &PgBillRepository{DB: db}
}

func scanBill(row pgx.Row) (*models.Bill, error) {
	var b models.Bill
	err := row.Scan(&b.ID, &b.RoomID, &b.Month, &b.ElectricIndexOld, &b.ElectricIndexNew,
		&b.WaterIndexOld, &b.WaterIndexNew, &b.RoomFee, &b.TotalAmount, &b.Status,
		&b.CreatedAt, &b.DueDate, &b.PaymentDate)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PgBillRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Bill, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "bill", "")
	}
	defer rows.Close()

	bills := []*models.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, mapError(err, "bill", "")
		}
		bills = append(bills, b)
	}
	return bills, mapError(rows.Err(), "bill", "")
}

func (r *PgBillRepository) List(ctx context.Context) ([]*models.Bill, error) {
	return r.query(ctx, `SELECT `+billColumns+` FROM bills ORDER BY created_at, id`)
}

func (r *PgBillRepository) ListByRoom(ctx context.Context, roomID string) ([]*models.Bill, error) {
	return r.query(ctx, `SELECT `+billColumns+` FROM bills WHERE room_id=$1 ORDER BY created_at, id`, roomID)
}

func (r *PgBillRepository) ListByStatus(ctx context.Context, status models.BillStatus) ([]*models.Bill, error) {
	return r.query(ctx, `SELECT `+billColumns+` FROM bills WHERE status=$1 ORDER BY created_at, id`, status)
}

func (r *PgBillRepository) Get(ctx context.Context, id string) (*models.Bill, error) {
	b, err := scanBill(r.DB.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "bill", id)
	}
	return b, nil
}

func (r *PgBillRepository) Create(ctx context.Context, b *models.Bill) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO bills(id, room_id, month, electric_index_old, electric_index_new, water_index_old,
		 water_index_new, room_fee, total_amount, status, due_date, payment_date)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at`,
		b.ID, b.RoomID, b.Month, b.ElectricIndexOld, b.ElectricIndexNew, b.WaterIndexOld,
		b.WaterIndexNew, b.RoomFee, b.TotalAmount, b.Status, b.DueDate, b.PaymentDate,
	).Scan(&b.CreatedAt)
	return mapError(err, "bill", b.ID)
}

func (r *PgBillRepository) Update(ctx context.Context, b *models.Bill) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE bills SET room_id=$2, month=$3, electric_index_old=$4, electric_index_new=$5,
		 water_index_old=$6, water_index_new=$7, room_fee=$8, total_amount=$9, status=$10,
		 due_date=$11, payment_date=$12
		 WHERE id=$1`,
		b.ID, b.RoomID, b.Month, b.ElectricIndexOld, b.ElectricIndexNew, b.WaterIndexOld,
		b.WaterIndexNew, b.RoomFee, b.TotalAmount, b.Status, b.DueDate, b.PaymentDate,
	)
	if err != nil {
		return mapError(err, "bill", b.ID)
	}
	return notFoundOnZero(tag, "bill", b.ID)
}

func (r *PgBillRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM bills WHERE id=$1`, id)
	if err != nil {
		return mapError(err, "bill", id)
	}
	return notFoundOnZero(tag, "bill", id)
}

func (r *PgBillRepository) DeleteByRoom(ctx context.Context, roomID string) (int, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM bills WHERE room_id=$1`, roomID)
	if err != nil {
		return 0, mapError(err, "bill", "")
	}
	return int(tag.RowsAffected()), nil
}
