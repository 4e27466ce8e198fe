package repositories

import (
	"context"

	"dorm-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const studentColumns = `id, student_code, name, dob, gender, phone, room_id, university, created_at, updated_at`

type PgStudentRepository struct {
	DB querier
}

func NewPgStudentRepository(db querier) *PgStudentRepository {
	return &PgStudentRepository{DB: db}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.StudentCode, &s.Name, &s.DOB, &s.Gender, &s.Phone,
		&s.RoomID, &s.University, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgStudentRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Student, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "student", "")
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, mapError(err, "student", "")
		}
		students = append(students, s)
	}
	return students, mapError(rows.Err(), "student", "")
}

func (r *PgStudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	return r.query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY created_at, id`)
}

func (r *PgStudentRepository) ListByRoom(ctx context.Context, roomID string) ([]*models.Student, error) {
	return r.query(ctx, `SELECT `+studentColumns+` FROM students WHERE room_id=$1 ORDER BY created_at, id`, roomID)
}

func (r *PgStudentRepository) CountByRoom(ctx context.Context, roomID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE room_id=$1`, roomID).Scan(&n)
	return n, mapError(err, "student", "")
}

func (r *PgStudentRepository) Get(ctx context.Context, id string) (*models.Student, error) {
	s, err := scanStudent(r.DB.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "student", id)
	}
	return s, nil
}

func (r *PgStudentRepository) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	s, err := scanStudent(r.DB.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE student_code=$1`, code))
	if err != nil {
		return nil, mapError(err, "student", code)
	}
	return s, nil
}

func (r *PgStudentRepository) Create(ctx context.Context, s *models.Student) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO students(id, student_code, name, dob, gender, phone, room_id, university)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		s.ID, s.StudentCode, s.Name, s.DOB, s.Gender, s.Phone, s.RoomID, s.University,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return mapError(err, "student", s.ID)
}

func (r *PgStudentRepository) Update(ctx context.Context, s *models.Student) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE students SET student_code=$2, name=$3, dob=$4, gender=$5, phone=$6, room_id=$7,
		 university=$8, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		s.ID, s.StudentCode, s.Name, s.DOB, s.Gender, s.Phone, s.RoomID, s.University,
	).Scan(&s.UpdatedAt)
	return mapError(err, "student", s.ID)
}

func (r *PgStudentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM students WHERE id=$1`, id)
	if err != nil {
		return mapError(err, "student", id)
	}
	return notFoundOnZero(tag, "student", id)
}
