package repositories

import (
	"context"

	"dorm-backend/internal/models"
)

// Every repository returns apperr.NotFound for a missing id and an empty
// slice (never nil) from a scan over an empty collection.

type BuildingRepository interface {
	List(ctx context.Context) ([]*models.Building, error)
	Get(ctx context.Context, id string) (*models.Building, error)
	Create(ctx context.Context, b *models.Building) error
	Update(ctx context.Context, b *models.Building) error
	Delete(ctx context.Context, id string) error
}

type RoomRepository interface {
	List(ctx context.Context) ([]*models.Room, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]*models.Room, error)
	Get(ctx context.Context, id string) (*models.Room, error)
	Create(ctx context.Context, r *models.Room) error
	Update(ctx context.Context, r *models.Room) error
	Delete(ctx context.Context, id string) error
}

type StudentRepository interface {
	List(ctx context.Context) ([]*models.Student, error)
	ListByRoom(ctx context.Context, roomID string) ([]*models.Student, error)
	CountByRoom(ctx context.Context, roomID string) (int, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	GetByCode(ctx context.Context, code string) (*models.Student, error)
	Create(ctx context.Context, s *models.Student) error
	Update(ctx context.Context, s *models.Student) error
	Delete(ctx context.Context, id string) error
}

type GuestRepository interface {
	List(ctx context.Context) ([]*models.Guest, error)
	ListByRoom(ctx context.Context, roomID string) ([]*models.Guest, error)
	CountByRoom(ctx context.Context, roomID string) (int, error)
	Get(ctx context.Context, id string) (*models.Guest, error)
	Create(ctx context.Context, g *models.Guest) error
	Update(ctx context.Context, g *models.Guest) error
	Delete(ctx context.Context, id string) error
}

type AssetRepository interface {
	List(ctx context.Context) ([]*models.Asset, error)
	ListByRoom(ctx context.Context, roomID string) ([]*models.Asset, error)
	Get(ctx context.Context, id string) (*models.Asset, error)
	Create(ctx context.Context, a *models.Asset) error
	Update(ctx context.Context, a *models.Asset) error
	Delete(ctx context.Context, id string) error
	DeleteByRoom(ctx context.Context, roomID string) (int, error)
}

type BillRepository interface {
	List(ctx context.Context) ([]*models.Bill, error)
	ListByRoom(ctx context.Context, roomID string) ([]*models.Bill, error)
	ListByStatus(ctx context.Context, status models.BillStatus) ([]*models.Bill, error)
	Get(ctx context.Context, id string) (*models.Bill, error)
	Create(ctx context.Context, b *models.Bill) error
	Update(ctx context.Context, b *models.Bill) error
	Delete(ctx context.Context, id string) error
	DeleteByRoom(ctx context.Context, roomID string) (int, error)
}

type UserRepository interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

// Tx exposes the repositories of one unit of work.
type Tx interface {
	Buildings() BuildingRepository
	Rooms() RoomRepository
	Students() StudentRepository
	Guests() GuestRepository
	Assets() AssetRepository
	Bills() BillRepository
	Users() UserRepository
}

// Store runs units of work atomically. RunInTx commits all writes made by fn
// or none of them; View gives fn a consistent read-only snapshot.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close()
}
