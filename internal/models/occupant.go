package models

import "fmt"

type OccupantKind string

const (
	OccupantStudent OccupantKind = "student"
	OccupantGuest   OccupantKind = "guest"
)

// Occupant is a student or guest as seen by the occupancy engine. RoomID is
// the room currently held, empty for a person not yet placed.
type Occupant struct {
	Kind   OccupantKind
	ID     string
	RoomID string
}

// String identifies the occupant in logs, e.g. "student 42" or "new guest"
func (o Occupant) String() string {
	if o.ID == "" {
		return fmt.Sprintf("new %s", o.Kind)
	}
	return fmt.Sprintf("%s %s", o.Kind, o.ID)
}
