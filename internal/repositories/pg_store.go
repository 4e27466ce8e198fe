package repositories

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"dorm-backend/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// occupancyLockKey serializes every write transaction through one
// transaction-scoped advisory lock.
const occupancyLockKey int64 = 0x646f726d // "dorm"

// querier is satisfied by both pgx.Tx and *pgxpool.Pool
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresStore(pool *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresStore{pool: pool, timeout: timeout}
}

// RunInTx runs fn in a serialized read-write transaction
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, true, fn)
}

// View runs fn in a read-only transaction
func (s *PostgresStore) View(ctx context.Context, fn func(tx Tx) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, false, fn)
}

func (s *PostgresStore) run(ctx context.Context, opts pgx.TxOptions, lock bool, fn func(tx Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return mapError(err, "transaction", "")
	}
	defer tx.Rollback(ctx)

	if lock {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, occupancyLockKey); err != nil {
			return mapError(err, "transaction", "")
		}
	}

	if err := fn(newPgTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "transaction", "")
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return mapError(err, "database", "")
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Pool exposes the pool for the migrator and health checks
func (s *PostgresStore) Pool() *pgxpool.Pool { return s.pool }

type pgTx struct {
	buildings *PgBuildingRepository
	rooms     *PgRoomRepository
	students  *PgStudentRepository
	guests    *PgGuestRepository
	assets    *PgAssetRepository
	bills     *PgBillRepository
	users     *PgUserRepository
}

func newPgTx(q querier) *pgTx {
	return &pgTx{
		buildings: NewPgBuildingRepository(q),
		rooms:     NewPgRoomRepository(q),
		students:  NewPgStudentRepository(q),
		guests:    NewPgGuestRepository(q),
		assets:    NewPgAssetRepository(q),
		bills:     NewPgBillRepository(q),
		users:     NewPgUserRepository(q),
	}
}

func (t *pgTx) Buildings() BuildingRepository { return t.buildings }
func (t *pgTx) Rooms() RoomRepository         { return t.rooms }
func (t *pgTx) Students() StudentRepository   { return t.students }
func (t *pgTx) Guests() GuestRepository       { return t.guests }
func (t *pgTx) Assets() AssetRepository       { return t.assets }
func (t *pgTx) Bills() BillRepository         { return t.bills }
func (t *pgTx) Users() UserRepository         { return t.users }

// duplicateMessages maps unique constraints to user-facing messages
var duplicateMessages = map[string]string{
	"students_student_code_key": "student code already exists",
	"users_username_key":        "username already exists",
}

// mapError classifies a pgx error. Business errors pass through unchanged.
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFoundf(entity, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			msg, ok := duplicateMessages[pgErr.ConstraintName]
			if !ok {
				msg = fmt.Sprintf("%s already exists", entity)
			}
			return apperr.Wrap(apperr.DuplicateKey, err, "%s", msg)
		case "23503":
			return apperr.Wrap(apperr.NotFound, err, "%s references a record that does not exist", entity)
		case "57014", "53300", "08000", "08003", "08006":
			return apperr.Wrap(apperr.Unavailable, err, "database unavailable")
		}
		return fmt.Errorf("%s: %w", entity, err)
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return apperr.Wrap(apperr.Unavailable, err, "database timed out")
	case errors.As(err, &connErr), errors.As(err, &netErr):
		return apperr.Wrap(apperr.Unavailable, err, "database unavailable")
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func notFoundOnZero(tag pgconn.CommandTag, entity, id string) error {
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf(entity, id)
	}
	return nil
}
