// Package sqlite persists the in-memory store to a SQLite file. The full
// state is written as one JSON blob per entity bucket inside the same
// transaction that commits the in-memory change.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"dorm-backend/internal/models"
	"dorm-backend/internal/repositories/memory"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

type Store struct {
	*memory.Store
	db   *sql.DB
	path string
}

// bucket names, in write order
var buckets = []string{"buildings", "rooms", "students", "guests", "assets", "bills", "users"}

// NewStore opens (or creates) the database at path and loads its state
func NewStore(path string, opts ...memory.Option) (*Store, error) {
	if path == "" {
		path = "dorm.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	s := &Store{Store: memory.New(opts...), db: db, path: path}
	if err := s.load(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	s.SetPersister(s.persist)
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer rows.Close()

	var snap memory.Snapshot
	found := 0
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if bucket == "users" {
			var records []userRecord
			if err := json.Unmarshal(payload, &records); err != nil {
				return fmt.Errorf("decode %s: %w", bucket, err)
			}
			snap.Users = fromRecords(records)
			found++
			continue
		}
		target := bucketTarget(&snap, bucket)
		if target == nil {
			log.Printf("[SQLite] Ignoring unknown bucket %q", bucket)
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("decode %s: %w", bucket, err)
		}
		found++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if found > 0 {
		s.ImportState(snap)
		log.Printf("[SQLite] Loaded state from %s", s.path)
	}
	return nil
}

func bucketTarget(snap *memory.Snapshot, bucket string) any {
	switch bucket {
	case "buildings":
		return &snap.Buildings
	case "rooms":
		return &snap.Rooms
	case "students":
		return &snap.Students
	case "guests":
		return &snap.Guests
	case "assets":
		return &snap.Assets
	case "bills":
		return &snap.Bills
	case "users":
		return toRecords(snap.Users)
	}
	return nil
}

// userRecord keeps the password hash that the API encoding of a user omits
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func toRecords(users []models.User) []userRecord {
	out := make([]userRecord, 0, len(users))
	for _, u := range users {
		out = append(out, userRecord{User: u, PasswordHash: u.PasswordHash})
	}
	return out
}

func fromRecords(records []userRecord) []models.User {
	out := make([]models.User, 0, len(records))
	for _, r := range records {
		u := r.User
		u.PasswordHash = r.PasswordHash
		out = append(out, u)
	}
	return out
}

func (s *Store) persist(ctx context.Context, snap memory.Snapshot) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, bucket := range buckets {
		data, err := json.Marshal(bucketTarget(&snap, bucket))
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket, payload) VALUES(?, ?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
			bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	return tx.Commit()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		log.Printf("[SQLite] Close failed: %v", err)
	}
}

// Path returns the database file path
func (s *Store) Path() string { return s.path }
