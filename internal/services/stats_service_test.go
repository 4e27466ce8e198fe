package services

import (
	"context"
	"testing"
	"time"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDashboard(t *testing.T) {
	rooms := []*models.Room{
		{MaxCapacity: 4, CurrentCapacity: 4, Status: models.RoomFull},
		{MaxCapacity: 4, CurrentCapacity: 1, Status: models.RoomAvailable},
		{MaxCapacity: 3, CurrentCapacity: 0, Status: models.RoomAvailable},
		{MaxCapacity: 2, CurrentCapacity: 0, Status: models.RoomMaintenance},
	}
	stats := ComputeDashboard(rooms, 4, 1)

	assert.Equal(t, 4, stats.TotalRooms)
	assert.Equal(t, 2, stats.OccupiedRooms)
	assert.Equal(t, 1, stats.FullRooms)
	assert.Equal(t, 2, stats.AvailableRooms)
	assert.Equal(t, 1, stats.MaintenanceRooms)
	assert.Equal(t, 4, stats.TotalStudents)
	assert.Equal(t, 1, stats.TotalGuests)
	// 5/13 = 38.46%
	assert.Equal(t, 38, stats.OccupancyRate)
}

func TestComputeDashboardEmpty(t *testing.T) {
	stats := ComputeDashboard(nil, 0, 0)
	assert.Equal(t, 0, stats.OccupancyRate)
	assert.Equal(t, 0, stats.TotalRooms)
}

func TestComputeDashboardRoundsHalfUp(t *testing.T) {
	rooms := []*models.Room{{MaxCapacity: 8, CurrentCapacity: 1, Status: models.RoomAvailable}}
	// 12.5% rounds to 13
	assert.Equal(t, 13, ComputeDashboard(rooms, 1, 0).OccupancyRate)
}

func TestComputeRevenue(t *testing.T) {
	bills := []*models.Bill{
		{Month: "2024-03", Status: models.BillPaid, ElectricIndexNew: 10, RoomFee: 100},
		{Month: "2024-01", Status: models.BillPaid, WaterIndexNew: 2, RoomFee: 50, TotalAmount: 999},
		{Month: "2024-03", Status: models.BillPaid, WaterIndexNew: 1},
		{Month: "2024-02", Status: models.BillUnpaid, RoomFee: 1000},
	}
	series := ComputeRevenue(bills)

	require.Len(t, series, 2)
	assert.Equal(t, models.MonthlyRevenue{Month: "2024-01", Water: 20000, RoomFee: 50, Total: 20050}, series[0])
	assert.Equal(t, models.MonthlyRevenue{Month: "2024-03", Electricity: 35000, Water: 10000, RoomFee: 100, Total: 45100}, series[1])
}

func TestStatsServiceReadsStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t, "S1", 2)
	_, err := f.student(t, "SV01", r.ID)
	require.NoError(t, err)
	b, err := f.bills.Create(ctx, admin, &models.CreateBillRequest{RoomID: r.ID, Month: "2024-02", RoomFee: ptr(int64(700))})
	require.NoError(t, err)
	_, err = f.bills.Pay(ctx, staff, b.ID)
	require.NoError(t, err)

	stats, err := f.stats.Dashboard(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalRooms)
	assert.Equal(t, 1, stats.TotalStudents)
	assert.Equal(t, 50, stats.OccupancyRate)

	rev, err := f.stats.Revenue(ctx, staff)
	require.NoError(t, err)
	require.Len(t, rev, 1)
	assert.Equal(t, int64(700), rev[0].Total)
}

func TestDaysUntilDue(t *testing.T) {
	due := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"exactly due", due, 0},
		{"one hour before", due.Add(-time.Hour), 1},
		{"two days before", due.Add(-48 * time.Hour), 2},
		{"47 hours before", due.Add(-47 * time.Hour), 2},
		{"one hour late", due.Add(time.Hour), 0},
		{"25 hours late", due.Add(25 * time.Hour), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilDue(due, tt.now))
		})
	}
}

func TestDeriveNotifications(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	bills := []*models.Bill{
		{ID: "soon", RoomID: "r1", Month: "2024-03", Status: models.BillUnpaid, DueDate: now.Add(2 * day)},
		{ID: "late", RoomID: "r2", Month: "2024-02", Status: models.BillUnpaid, DueDate: now.Add(-3*day - time.Hour)},
		{ID: "far", RoomID: "r1", Month: "2024-04", Status: models.BillUnpaid, DueDate: now.Add(10 * day)},
		{ID: "edge", RoomID: "r1", Month: "2024-03", Status: models.BillUnpaid, DueDate: now.Add(3 * day)},
		{ID: "paid", RoomID: "r1", Month: "2024-01", Status: models.BillPaid, DueDate: now.Add(-30 * day)},
	}
	notes := DeriveNotifications(bills, map[string]string{"r1": "A101"}, now)

	require.Len(t, notes, 3)
	assert.Equal(t, "late", notes[0].BillID)
	assert.Equal(t, models.NotificationDanger, notes[0].Level)
	assert.Equal(t, -3, notes[0].DaysUntilDue)
	assert.Contains(t, notes[0].Message, "overdue by 3 day")
	assert.Contains(t, notes[0].Message, "r2")

	assert.Equal(t, "soon", notes[1].BillID)
	assert.Equal(t, models.NotificationWarning, notes[1].Level)
	assert.Equal(t, "A101", notes[1].RoomName)

	assert.Equal(t, "edge", notes[2].BillID)
	assert.Equal(t, 3, notes[2].DaysUntilDue)
}

func TestNotificationServiceEmpty(t *testing.T) {
	f := newFixture(t)
	notes, err := f.notes.List(context.Background(), staff)
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestNotificationServiceFlagsBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t, "N1", 2)
	// fixture clock is 2024-03-05; due 2024-03-10 local is 5 days away
	_, err := f.bills.Create(ctx, admin, &models.CreateBillRequest{RoomID: r.ID, Month: "2024-03"})
	require.NoError(t, err)
	_, err = f.bills.Create(ctx, admin, &models.CreateBillRequest{RoomID: r.ID, Month: "2024-02"})
	require.NoError(t, err)

	notes, err := f.notes.List(ctx, staff)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "2024-02", notes[0].Month)
	assert.Equal(t, models.NotificationDanger, notes[0].Level)
	assert.Equal(t, "N1", notes[0].RoomName)
}

func TestStatsRequireKnownRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.stats.Dashboard(context.Background(), policy.Actor{Username: "anonymous"})
	assert.ErrorIs(t, err, apperr.Forbidden)
}
