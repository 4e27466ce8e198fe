package backup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dorm-backend/internal/models"
	"dorm-backend/internal/repositories"
	"dorm-backend/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	key  string
	body []byte
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, key string, body []byte, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.key, f.body = key, body
	return nil
}

func seeded(t *testing.T) *memory.Store {
	s := memory.New()
	require.NoError(t, s.RunInTx(context.Background(), func(tx repositories.Tx) error {
		b := &models.Building{Name: "A"}
		if err := tx.Buildings().Create(context.Background(), b); err != nil {
			return err
		}
		if err := tx.Rooms().Create(context.Background(), &models.Room{
			Name: "A101", BuildingID: b.ID, Status: models.RoomAvailable, MaxCapacity: 4,
		}); err != nil {
			return err
		}
		return tx.Users().Create(context.Background(), &models.User{
			Username: "admin", PasswordHash: "secret-hash", Role: models.RoleAdmin,
		})
	}))
	return s
}

func TestExporterUploadsSnapshot(t *testing.T) {
	up := &fakeUploader{}
	at := time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC)
	e := NewExporter(seeded(t), up, "backups/", func() time.Time { return at })

	key, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, e.Key(at), key)
	assert.Equal(t, key, up.key)
	assert.Regexp(t, `^backups/dorm_\d{8}_\d{6}\.json$`, key)

	var snap memory.Snapshot
	require.NoError(t, json.Unmarshal(up.body, &snap))
	assert.Len(t, snap.Buildings, 1)
	assert.Len(t, snap.Rooms, 1)
	assert.Empty(t, snap.Students)
	require.Len(t, snap.Users, 1)
	assert.NotContains(t, string(up.body), "secret-hash")
}

func TestExporterUploadFailure(t *testing.T) {
	e := NewExporter(seeded(t), &fakeUploader{err: errors.New("bucket gone")}, "", nil)
	_, err := e.Run(context.Background())
	assert.ErrorContains(t, err, "bucket gone")
}

func TestScheduleDisabled(t *testing.T) {
	done := make(chan struct{})
	go func() {
		NewExporter(memory.New(), &fakeUploader{}, "", nil).Schedule(context.Background(), 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("schedule with zero interval should return immediately")
	}
}
