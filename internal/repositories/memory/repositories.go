package memory

import (
	"context"
	"time"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/models"
	"dorm-backend/internal/repositories"

	"github.com/google/uuid"
)

type transaction struct {
	state    *state
	now      func() time.Time
	readOnly bool
}

func (t *transaction) Buildings() repositories.BuildingRepository { return buildingRepo{t} }
func (t *transaction) Rooms() repositories.RoomRepository         { return roomRepo{t} }
func (t *transaction) Students() repositories.StudentRepository   { return studentRepo{t} }
func (t *transaction) Guests() repositories.GuestRepository       { return guestRepo{t} }
func (t *transaction) Assets() repositories.AssetRepository       { return assetRepo{t} }
func (t *transaction) Bills() repositories.BillRepository         { return billRepo{t} }
func (t *transaction) Users() repositories.UserRepository         { return userRepo{t} }

func (t *transaction) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

// insert stores v under a fresh id when id is empty
func insert[T any](t *transaction, tbl table[T], id *string, v *T) error {
	if err := t.writable(); err != nil {
		return err
	}
	if *id == "" {
		*id = uuid.NewString()
	}
	if _, exists := tbl.rows[*id]; exists {
		return apperr.New(apperr.DuplicateKey, "id %s already exists", *id)
	}
	tbl.rows[*id] = entry[T]{seq: t.state.next(), val: tbl.copy(*v)}
	return nil
}

func replace[T any](t *transaction, tbl table[T], entity, id string, v *T) error {
	if err := t.writable(); err != nil {
		return err
	}
	e, ok := tbl.rows[id]
	if !ok {
		return apperr.NotFoundf(entity, id)
	}
	tbl.rows[id] = entry[T]{seq: e.seq, val: tbl.copy(*v)}
	return nil
}

func remove[T any](t *transaction, tbl table[T], entity, id string) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := tbl.rows[id]; !ok {
		return apperr.NotFoundf(entity, id)
	}
	delete(tbl.rows, id)
	return nil
}

func removeWhere[T any](t *transaction, tbl table[T], match func(*T) bool) (int, error) {
	if err := t.writable(); err != nil {
		return 0, err
	}
	n := 0
	for id, e := range tbl.rows {
		if match(&e.val) {
			delete(tbl.rows, id)
			n++
		}
	}
	return n, nil
}

func lookup[T any](tbl table[T], entity, id string) (*T, error) {
	v, ok := tbl.get(id)
	if !ok {
		return nil, apperr.NotFoundf(entity, id)
	}
	return v, nil
}

type buildingRepo struct{ t *transaction }

func (r buildingRepo) List(context.Context) ([]*models.Building, error) {
	return r.t.state.buildings.list(nil), nil
}

func (r buildingRepo) Get(_ context.Context, id string) (*models.Building, error) {
	return lookup(r.t.state.buildings, "building", id)
}

func (r buildingRepo) Create(_ context.Context, b *models.Building) error {
	now := r.t.now()
	b.CreatedAt, b.UpdatedAt = now, now
	return insert(r.t, r.t.state.buildings, &b.ID, b)
}

func (r buildingRepo) Update(_ context.Context, b *models.Building) error {
	b.UpdatedAt = r.t.now()
	return replace(r.t, r.t.state.buildings, "building", b.ID, b)
}

func (r buildingRepo) Delete(_ context.Context, id string) error {
	return remove(r.t, r.t.state.buildings, "building", id)
}

type roomRepo struct{ t *transaction }

func (r roomRepo) List(context.Context) ([]*models.Room, error) {
	return r.t.state.rooms.list(nil), nil
}

func (r roomRepo) ListByBuilding(_ context.Context, buildingID string) ([]*models.Room, error) {
	return r.t.state.rooms.list(func(room *models.Room) bool { return room.BuildingID == buildingID }), nil
}

func (r roomRepo) Get(_ context.Context, id string) (*models.Room, error) {
	return lookup(r.t.state.rooms, "room", id)
}

func (r roomRepo) Create(_ context.Context, room *models.Room) error {
	now := r.t.now()
	room.CreatedAt, room.UpdatedAt = now, now
	return insert(r.t, r.t.state.rooms, &room.ID, room)
}

func (r roomRepo) Update(_ context.Context, room *models.Room) error {
	room.UpdatedAt = r.t.now()
	return replace(r.t, r.t.state.rooms, "room", room.ID, room)
}

func (r roomRepo) Delete(_ context.Context, id string) error {
	return remove(r.t, r.t.state.rooms, "room", id)
}

type studentRepo struct{ t *transaction }

func (r studentRepo) List(context.Context) ([]*models.Student, error) {
	return r.t.state.students.list(nil), nil
}

func (r studentRepo) ListByRoom(_ context.Context, roomID string) ([]*models.Student, error) {
	return r.t.state.students.list(func(s *models.Student) bool { return s.RoomID == roomID }), nil
}

func (r studentRepo) CountByRoom(_ context.Context, roomID string) (int, error) {
	return r.t.state.students.count(func(s *models.Student) bool { return s.RoomID == roomID }), nil
}

func (r studentRepo) Get(_ context.Context, id string) (*models.Student, error) {
	return lookup(r.t.state.students, "student", id)
}

func (r studentRepo) GetByCode(_ context.Context, code string) (*models.Student, error) {
	found := r.t.state.students.list(func(s *models.Student) bool { return s.StudentCode == code })
	if len(found) == 0 {
		return nil, apperr.NotFoundf("student", code)
	}
	return found[0], nil
}

func (r studentRepo) codeTaken(code, exceptID string) bool {
	return r.t.state.students.count(func(s *models.Student) bool {
		return s.StudentCode == code && s.ID != exceptID
	}) > 0
}

func (r studentRepo) Create(_ context.Context, s *models.Student) error {
	if r.codeTaken(s.StudentCode, s.ID) {
		return apperr.New(apperr.DuplicateKey, "student code already exists")
	}
	now := r.t.now()
	s.CreatedAt, s.UpdatedAt = now, now
	return insert(r.t, r.t.state.students, &s.ID, s)
}

func (r studentRepo) Update(_ context.Context, s *models.Student) error {
	if r.codeTaken(s.StudentCode, s.ID) {
		return apperr.New(apperr.DuplicateKey, "student code already exists")
	}
	s.UpdatedAt = r.t.now()
	return replace(r.t, r.t.state.students, "student", s.ID, s)
}

func (r studentRepo) Delete(_ context.Context, id string) error {
	return remove(r.t, r.t.state.students, "student", id)
}

type guestRepo struct{ t *transaction }

func (r guestRepo) List(context.Context) ([]*models.Guest, error) {
	return r.t.state.guests.list(nil), nil
}

func (r guestRepo) ListByRoom(_ context.Context, roomID string) ([]*models.Guest, error) {
	return r.t.state.guests.list(func(g *models.Guest) bool { return g.RoomID == roomID }), nil
}

func (r guestRepo) CountByRoom(_ context.Context, roomID string) (int, error) {
	return r.t.state.guests.count(func(g *models.Guest) bool { return g.RoomID == roomID }), nil
}

func (r guestRepo) Get(_ context.Context, id string) (*models.Guest, error) {
	return lookup(r.t.state.guests, "guest", id)
}

func (r guestRepo) Create(_ context.Context, g *models.Guest) error {
	now := r.t.now()
	g.CreatedAt, g.UpdatedAt = now, now
	return insert(r.t, r.t.state.guests, &g.ID, g)
}

func (r guestRepo) Update(_ context.Context, g *models.Guest) error {
	g.UpdatedAt = r.t.now()
	return replace(r.t, r.t.state.guests, "guest", g.ID, g)
}

func (r guestRepo) Delete(_ context.Context, id string) error {
	return remove(r.t, r.t.state.guests, "guest", id)
}

type assetRepo struct{ t *transaction }

func (r assetRepo) List(context.Context) ([]*models.Asset, error) {
	return r.t.state.assets.list(nil), nil
}

func (r assetRepo) ListByRoom(_ context.Context, roomID string) ([]*models.Asset, error) {
	return r.t.state.assets.list(func(a *models.Asset) bool { return a.InRoom(roomID) }), nil
}

func (r assetRepo) Get(_ context.Context, id string) (*models.Asset, error) {
	return lookup(r.t.state.assets, "asset", id)
}

func (r assetRepo) Create(_ context.Context, a *models.Asset) error {
	now := r.t.now()
	a.CreatedAt, a.UpdatedAt = now, now
	return insert(r.t, r.t.state.assets, &a.ID, a)
}

func (r assetRepo) Update(_ context.Context, a *models.Asset) error {
	a.UpdatedAt = r.t.now()
	return replace(r.t, r.t.state.assets, "asset", a.ID, a)
}

func (r assetRepo) Delete(_ context.Context, id string) error {
	return remove(r.t, r.t.state.assets, "asset", id)
}

func (r assetRepo) DeleteByRoom(_ context.Context, roomID string) (int, error) {
	return removeWhere(r.t, r.t.state.assets, func(a *models.Asset) bool { return a.InRoom(roomID) })
}

type billRepo struct{ t *transaction }

func (r billRepo) List(context.Context) ([]*models.Bill, error) {
	return r.t.state.bills.list(nil), nil
}

func (r billRepo) ListByRoom(_ context.Context, roomID string) ([]*models.Bill, error) {
	return r.t.state.bills.list(func(b *models.Bill) bool { return b.RoomID == roomID }), nil
}

func (r billRepo) ListByStatus(_ context.Context, status models.BillStatus) ([]*models.Bill, error) {
	return r.t.state.bills.list(func(b *models.Bill) bool { return b.Status == status }), nil
}

func (r billRepo) Get(_ context.Context, id string) (*models.Bill, error) {
	return lookup(r.t.state.bills, "bill", id)
}

func (r billRepo) Create(_ context.Context, b *models.Bill) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = r.t.now()
	}
	return insert(r.t, r.t.state.bills, &b.ID, b)
}

func (r billRepo) Update(_ context.Context, b *models.Bill) error {
	return replace(r.t, r.t.state.bills, "bill", b.ID, b)
}

func (r billRepo) Delete(_ context.Context, id string) error {
	return remove(r.t, r.t.state.bills, "bill", id)
}

func (r billRepo) DeleteByRoom(_ context.Context, roomID string) (int, error) {
	return removeWhere(r.t, r.t.state.bills, func(b *models.Bill) bool { return b.RoomID == roomID })
}

type userRepo struct{ t *transaction }

func (r userRepo) List(context.Context) ([]*models.User, error) {
	return r.t.state.users.list(nil), nil
}

func (r userRepo) Get(_ context.Context, id string) (*models.User, error) {
	return lookup(r.t.state.users, "user", id)
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	found := r.t.state.users.list(func(u *models.User) bool { return u.Username == username })
	if len(found) == 0 {
		return nil, apperr.NotFoundf("user", username)
	}
	return found[0], nil
}

func (r userRepo) usernameTaken(username, exceptID string) bool {
	return r.t.state.users.count(func(u *models.User) bool {
		return u.Username == username && u.ID != exceptID
	}) > 0
}

func (r userRepo) Create(_ context.Context, u *models.User) error {
	if r.usernameTaken(u.Username, u.ID) {
		return apperr.New(apperr.DuplicateKey, "username already exists")
	}
	if u.Role == "" {
		u.Role = models.RoleStaff
	}
	now := r.t.now()
	u.CreatedAt, u.UpdatedAt = now, now
	return insert(r.t, r.t.state.users, &u.ID, u)
}

func (r userRepo) Update(_ context.Context, u *models.User) error {
	if r.usernameTaken(u.Username, u.ID) {
		return apperr.New(apperr.DuplicateKey, "username already exists")
	}
	u.UpdatedAt = r.t.now()
	return replace(r.t, r.t.state.users, "user", u.ID, u)
}

func (r userRepo) Delete(_ context.Context, id string) error {
	return remove(r.t, r.t.state.users, "user", id)
}
