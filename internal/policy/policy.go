// Package policy decides which roles may perform which actions. Services call
// Authorize before opening a transaction so a denied request has no side
// effects.
package policy

import (
	"dorm-backend/internal/apperr"
	"dorm-backend/internal/models"
)

type Action string

const (
	BuildingRead   Action = "building:read"
	BuildingCreate Action = "building:create"
	BuildingUpdate Action = "building:update"
	BuildingDelete Action = "building:delete"

	RoomRead    Action = "room:read"
	RoomCreate  Action = "room:create"
	RoomUpdate  Action = "room:update"
	RoomDelete  Action = "room:delete"
	RoomRecount Action = "room:recount"

	StudentRead   Action = "student:read"
	StudentCreate Action = "student:create"
	StudentUpdate Action = "student:update"
	StudentDelete Action = "student:delete"

	GuestRead     Action = "guest:read"
	GuestCreate   Action = "guest:create"
	GuestUpdate   Action = "guest:update"
	GuestCheckout Action = "guest:checkout"

	AssetRead   Action = "asset:read"
	AssetCreate Action = "asset:create"
	AssetUpdate Action = "asset:update"
	AssetDelete Action = "asset:delete"

	BillRead   Action = "bill:read"
	BillCreate Action = "bill:create"
	BillUpdate Action = "bill:update"
	BillDelete Action = "bill:delete"
	BillPay    Action = "bill:pay"
	BillUnpay  Action = "bill:unpay"

	UserRead       Action = "user:read"
	UserCreate     Action = "user:create"
	UserUpdate     Action = "user:update"
	UserDelete     Action = "user:delete"
	UserChangeRole Action = "user:change_role"

	StatsRead         Action = "stats:read"
	NotificationsRead Action = "notifications:read"
)

// Actions lists every known action
var Actions = []Action{
	BuildingRead, BuildingCreate, BuildingUpdate, BuildingDelete,
	RoomRead, RoomCreate, RoomUpdate, RoomDelete, RoomRecount,
	StudentRead, StudentCreate, StudentUpdate, StudentDelete,
	GuestRead, GuestCreate, GuestUpdate, GuestCheckout,
	AssetRead, AssetCreate, AssetUpdate, AssetDelete,
	BillRead, BillCreate, BillUpdate, BillDelete, BillPay, BillUnpay,
	UserRead, UserCreate, UserUpdate, UserDelete, UserChangeRole,
	StatsRead, NotificationsRead,
}

var known = func() map[Action]bool {
	m := make(map[Action]bool, len(Actions))
	for _, a := range Actions {
		m[a] = true
	}
	return m
}()

// staffAllowed holds everything STAFF may do: reads outside user management,
// occupant changes, and issuing and settling bills. Structural changes to
// buildings, rooms and assets stay with ADMIN.
var staffAllowed = map[Action]bool{
	BuildingRead:      true,
	RoomRead:          true,
	StudentRead:       true,
	StudentCreate:     true,
	StudentUpdate:     true,
	StudentDelete:     true,
	GuestRead:         true,
	GuestCreate:       true,
	GuestUpdate:       true,
	GuestCheckout:     true,
	AssetRead:         true,
	BillRead:          true,
	BillCreate:        true,
	BillUpdate:        true,
	BillPay:           true,
	BillUnpay:         true,
	StatsRead:         true,
	NotificationsRead: true,
}

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID   string
	Username string
	Role     models.Role
}

// System is used for startup tasks such as seeding
var System = Actor{UserID: "system", Username: "system", Role: models.RoleAdmin}

// Allowed reports whether role may perform action
func Allowed(role models.Role, action Action) bool {
	if !known[action] {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleStaff:
		return staffAllowed[action]
	}
	return false
}

// Authorize returns apperr.Forbidden when the actor may not perform action
func Authorize(actor Actor, action Action) error {
	if Allowed(actor.Role, action) {
		return nil
	}
	return apperr.New(apperr.Forbidden, "role %q may not perform %s", actor.Role, action)
}
