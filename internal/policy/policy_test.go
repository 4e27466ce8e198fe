package policy

import (
	"testing"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAdminMayDoEverything(t *testing.T) {
	for _, a := range Actions {
		assert.True(t, Allowed(models.RoleAdmin, a), a)
	}
}

func TestStaffPermissions(t *testing.T) {
	allowed := []Action{
		BuildingRead, RoomRead, StudentRead, GuestRead, AssetRead, BillRead,
		StudentCreate, StudentUpdate, StudentDelete,
		GuestCreate, GuestUpdate, GuestCheckout,
		BillCreate, BillUpdate, BillPay, BillUnpay,
		StatsRead, NotificationsRead,
	}
	denied := []Action{
		BuildingCreate, BuildingUpdate, BuildingDelete,
		RoomCreate, RoomUpdate, RoomDelete, RoomRecount,
		AssetCreate, AssetUpdate, AssetDelete,
		BillDelete,
		UserRead, UserCreate, UserUpdate, UserDelete, UserChangeRole,
	}
	for _, a := range allowed {
		assert.True(t, Allowed(models.RoleStaff, a), a)
	}
	for _, a := range denied {
		assert.False(t, Allowed(models.RoleStaff, a), a)
	}
	// every action is classified
	assert.Len(t, Actions, len(allowed)+len(denied))
}

func TestUnknownRoleAndAction(t *testing.T) {
	assert.False(t, Allowed(models.Role("GUEST"), RoomRead))
	assert.False(t, Allowed(models.RoleAdmin, Action("room:explode")))
}

func TestAuthorize(t *testing.T) {
	staff := Actor{UserID: "u1", Role: models.RoleStaff}
	assert.NoError(t, Authorize(staff, BillPay))

	err := Authorize(staff, RoomDelete)
	assert.ErrorIs(t, err, apperr.Forbidden)
	assert.Contains(t, err.Error(), "room:delete")
}
