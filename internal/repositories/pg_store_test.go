package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dorm-backend/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperr.Kind
		msg  string
	}{
		{"no rows", pgx.ErrNoRows, apperr.NotFound, "room r1 not found"},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.NotFound, "room r1 not found"},
		{"student code unique", &pgconn.PgError{Code: "23505", ConstraintName: "students_student_code_key"}, apperr.DuplicateKey, "student code already exists"},
		{"username unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, apperr.DuplicateKey, "username already exists"},
		{"unknown unique", &pgconn.PgError{Code: "23505", ConstraintName: "other"}, apperr.DuplicateKey, "room already exists"},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperr.NotFound, ""},
		{"query cancelled", &pgconn.PgError{Code: "57014"}, apperr.Unavailable, ""},
		{"deadline", context.DeadlineExceeded, apperr.Unavailable, "database timed out"},
		{"business error passes", apperr.New(apperr.RoomFull, "room is full"), apperr.RoomFull, "room is full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "room", "r1")
			assert.ErrorIs(t, got, tt.kind)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, got.Error())
			}
		})
	}
}

func TestMapErrorLeavesUnknownErrorsUnclassified(t *testing.T) {
	assert.NoError(t, mapError(nil, "room", ""))

	raw := errors.New("syntax error")
	got := mapError(raw, "room", "")
	assert.ErrorIs(t, got, raw)
	assert.Equal(t, apperr.Kind(""), apperr.KindOf(got))
}
