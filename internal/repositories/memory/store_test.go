package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/models"
	"dorm-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func seedRoom(t *testing.T, s *Store) *models.Room {
	t.Helper()
	room := &models.Room{Name: "A101", BuildingID: "b1", Status: models.RoomAvailable, MaxCapacity: 2}
	require.NoError(t, s.RunInTx(context.Background(), func(tx repositories.Tx) error {
		return tx.Rooms().Create(context.Background(), room)
	}))
	require.NotEmpty(t, room.ID)
	return room
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	s := New(WithClock(fixedClock()))

	b := &models.Building{Name: "Block A"}
	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Buildings().Create(ctx, b)
	}))
	assert.NotEmpty(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		got, err := tx.Buildings().Get(ctx, b.ID)
		require.NoError(t, err)
		got.Name = "Block B"
		return tx.Buildings().Update(ctx, got)
	}))

	require.NoError(t, s.View(ctx, func(tx repositories.Tx) error {
		got, err := tx.Buildings().Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Block B", got.Name)
		return nil
	}))

	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Buildings().Delete(ctx, b.ID)
	}))

	err := s.View(ctx, func(tx repositories.Tx) error {
		_, err := tx.Buildings().Get(ctx, b.ID)
		return err
	})
	assert.ErrorIs(t, err, apperr.NotFound)
}

func TestEmptyListIsNotNil(t *testing.T) {
	s := New()
	require.NoError(t, s.View(context.Background(), func(tx repositories.Tx) error {
		students, err := tx.Students().List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, students)
		assert.Empty(t, students)
		return nil
	}))
}

func TestFailedTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	room := seedRoom(t, s)

	boom := errors.New("boom")
	err := s.RunInTx(ctx, func(tx repositories.Tx) error {
		r, err := tx.Rooms().Get(ctx, room.ID)
		require.NoError(t, err)
		r.CurrentCapacity = 2
		require.NoError(t, tx.Rooms().Update(ctx, r))
		require.NoError(t, tx.Students().Create(ctx, &models.Student{StudentCode: "S1", RoomID: room.ID}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.View(ctx, func(tx repositories.Tx) error {
		r, err := tx.Rooms().Get(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, r.CurrentCapacity)
		n, err := tx.Students().CountByRoom(ctx, room.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
		return nil
	}))
}

func TestViewRejectsWrites(t *testing.T) {
	s := New()
	err := s.View(context.Background(), func(tx repositories.Tx) error {
		return tx.Buildings().Create(context.Background(), &models.Building{Name: "x"})
	})
	assert.ErrorIs(t, err, errReadOnly)
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	roomID := "r1"
	asset := &models.Asset{Name: "Bed", RoomID: &roomID, Status: models.AssetGood}
	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Assets().Create(ctx, asset)
	}))

	*asset.RoomID = "r2"

	require.NoError(t, s.View(ctx, func(tx repositories.Tx) error {
		got, err := tx.Assets().Get(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, "r1", *got.RoomID)
		*got.RoomID = "r3"
		return nil
	}))

	require.NoError(t, s.View(ctx, func(tx repositories.Tx) error {
		got, err := tx.Assets().ListByRoom(ctx, "r1")
		require.NoError(t, err)
		assert.Len(t, got, 1)
		return nil
	}))
}

func TestUniqueKeys(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		if err := tx.Students().Create(ctx, &models.Student{StudentCode: "SV001", RoomID: "r1"}); err != nil {
			return err
		}
		return tx.Users().Create(ctx, &models.User{Username: "admin", Role: models.RoleAdmin})
	}))

	err := s.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Students().Create(ctx, &models.Student{StudentCode: "SV001", RoomID: "r2"})
	})
	assert.ErrorIs(t, err, apperr.DuplicateKey)

	err = s.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Users().Create(ctx, &models.User{Username: "admin"})
	})
	assert.ErrorIs(t, err, apperr.DuplicateKey)

	// updating a row with its own key is not a conflict
	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		st, err := tx.Students().GetByCode(ctx, "SV001")
		if err != nil {
			return err
		}
		st.Name = "Nguyen Van A"
		return tx.Students().Update(ctx, st)
	}))
}

func TestDeleteByRoom(t *testing.T) {
	ctx := context.Background()
	s := New()
	r1, r2 := "r1", "r2"

	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		for _, roomID := range []*string{&r1, &r1, &r2, nil} {
			if err := tx.Assets().Create(ctx, &models.Asset{Name: "Fan", RoomID: roomID}); err != nil {
				return err
			}
		}
		for _, roomID := range []string{r1, r2, r2} {
			if err := tx.Bills().Create(ctx, &models.Bill{RoomID: roomID, Month: "2024-03"}); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		n, err := tx.Assets().DeleteByRoom(ctx, r1)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		n, err = tx.Bills().DeleteByRoom(ctx, r2)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		return nil
	}))

	require.NoError(t, s.View(ctx, func(tx repositories.Tx) error {
		assets, _ := tx.Assets().List(ctx)
		bills, _ := tx.Bills().List(ctx)
		assert.Len(t, assets, 2)
		assert.Len(t, bills, 1)
		return nil
	}))
}

func TestListKeepsInsertionOrderAcrossSnapshots(t *testing.T) {
	ctx := context.Background()
	s := New()
	names := []string{"C", "A", "B"}
	require.NoError(t, s.RunInTx(ctx, func(tx repositories.Tx) error {
		for _, n := range names {
			if err := tx.Buildings().Create(ctx, &models.Building{Name: n}); err != nil {
				return err
			}
		}
		return nil
	}))

	restored := New()
	restored.ImportState(s.ExportState())

	require.NoError(t, restored.View(ctx, func(tx repositories.Tx) error {
		list, err := tx.Buildings().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i, b := range list {
			assert.Equal(t, names[i], b.Name)
		}
		return nil
	}))
}

func TestPersisterFailureAbortsCommit(t *testing.T) {
	ctx := context.Background()
	s := New(WithPersister(func(context.Context, Snapshot) error { return errors.New("disk full") }))

	err := s.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Buildings().Create(ctx, &models.Building{Name: "A"})
	})
	require.ErrorIs(t, err, apperr.Unavailable)
	assert.Empty(t, s.ExportState().Buildings)
}
