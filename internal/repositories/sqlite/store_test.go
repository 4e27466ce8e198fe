package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"dorm-backend/internal/models"
	"dorm-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "dorm.db")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))

	room := &models.Room{Name: "A101", BuildingID: "b1", Status: models.RoomAvailable, MaxCapacity: 4, CurrentCapacity: 1}
	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		if err := tx.Buildings().Create(ctx, &models.Building{ID: "b1", Name: "Block A"}); err != nil {
			return err
		}
		if err := tx.Rooms().Create(ctx, room); err != nil {
			return err
		}
		return tx.Students().Create(ctx, &models.Student{StudentCode: "SV1", Name: "An", RoomID: room.ID})
	}))
	s.Close()

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, path, reopened.Path())

	require.NoError(t, reopened.View(ctx, func(tx repositories.Tx) error {
		got, err := tx.Rooms().Get(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CurrentCapacity)
		students, err := tx.Students().ListByRoom(ctx, room.ID)
		require.NoError(t, err)
		assert.Len(t, students, 1)
		return nil
	}))
}

func TestFailedTransactionIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dorm.db")

	s, err := NewStore(path)
	require.NoError(t, err)

	err = s.RunInTx(ctx, func(tx repositories.Tx) error {
		if err := tx.Buildings().Create(ctx, &models.Building{Name: "Ghost"}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	s.Close()

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Empty(t, reopened.ExportState().Buildings)
}

func TestUserPasswordHashSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dorm.db")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Users().Create(ctx, &models.User{Username: "admin", PasswordHash: "$2a$10$hash", Role: models.RoleAdmin})
	}))
	s.Close()

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.View(ctx, func(tx repositories.Tx) error {
		u, err := tx.Users().GetByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$hash", u.PasswordHash)
		assert.Equal(t, models.RoleAdmin, u.Role)
		return nil
	}))
}
