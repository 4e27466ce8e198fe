package repositories

import (
	"context"

	"dorm-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, password_hash, full_name, role, created_at, updated_at`

type PgUserRepository struct {
	DB querier
}

func NewPgUserRepository(db querier) *PgUserRepository {
	return &PgUserRepository{DB: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users
func (r *PgUserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err, "user", "")
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError(err, "user", "")
		}
		users = append(users, u)
	}
	return users, mapError(rows.Err(), "user", "")
}

func (r *PgUserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "user", id)
	}
	return u, nil
}

func (r *PgUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username))
	if err != nil {
		return nil, mapError(err, "user", username)
	}
	return u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleStaff
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(id, username, password_hash, full_name, role)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		u.ID, u.Username, u.PasswordHash, u.FullName, u.Role,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	return mapError(err, "user", u.ID)
}

func (r *PgUserRepository) Update(ctx context.Context, u *models.User) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE users SET username=$2, password_hash=$3, full_name=$4, role=$5, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		u.ID, u.Username, u.PasswordHash, u.FullName, u.Role,
	).Scan(&u.UpdatedAt)
	return mapError(err, "user", u.ID)
}

func (r *PgUserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapError(err, "user", id)
	}
	return notFoundOnZero(tag, "user", id)
}
