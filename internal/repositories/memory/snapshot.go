package memory

import "dorm-backend/internal/models"

// Snapshot is the serialisable form of the store, one ordered slice per
// entity.
type Snapshot struct {
	Buildings []models.Building `json:"buildings"`
	Rooms     []models.Room     `json:"rooms"`
	Students  []models.Student  `json:"students"`
	Guests    []models.Guest    `json:"guests"`
	Assets    []models.Asset    `json:"assets"`
	Bills     []models.Bill     `json:"bills"`
	Users     []models.User     `json:"users"`
}

func values[T any](t table[T]) []T {
	rows := t.list(nil)
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func (s *state) snapshot() Snapshot {
	return Snapshot{
		Buildings: values(s.buildings),
		Rooms:     values(s.rooms),
		Students:  values(s.students),
		Guests:    values(s.guests),
		Assets:    values(s.assets),
		Bills:     values(s.bills),
		Users:     values(s.users),
	}
}

func load[T any](st *state, t table[T], rows []T, id func(*T) string) {
	for i := range rows {
		t.rows[id(&rows[i])] = entry[T]{seq: st.next(), val: t.copy(rows[i])}
	}
}

func stateFromSnapshot(snap Snapshot) *state {
	st := newState()
	load(st, st.buildings, snap.Buildings, func(b *models.Building) string { return b.ID })
	load(st, st.rooms, snap.Rooms, func(r *models.Room) string { return r.ID })
	load(st, st.students, snap.Students, func(s *models.Student) string { return s.ID })
	load(st, st.guests, snap.Guests, func(g *models.Guest) string { return g.ID })
	load(st, st.assets, snap.Assets, func(a *models.Asset) string { return a.ID })
	load(st, st.bills, snap.Bills, func(b *models.Bill) string { return b.ID })
	load(st, st.users, snap.Users, func(u *models.User) string { return u.ID })
	return st
}
