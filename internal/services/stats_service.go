package services

import (
	"context"
	"math"
	"sort"

	"dorm-backend/internal/cache"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
)

// StatsService derives the dashboard summary and the revenue series from a
// single consistent snapshot of the store.
type StatsService struct {
	store repositories.Store
}

func NewStatsService(store repositories.Store) *StatsService {
	return &StatsService{store: store}
}

// Dashboard returns room and occupant counts plus the occupancy rate
func (s *StatsService) Dashboard(ctx context.Context, actor policy.Actor) (*models.DashboardStats, error) {
	if err := policy.Authorize(actor, policy.StatsRead); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, cache.StatsKey, func(ctx context.Context) (*models.DashboardStats, error) {
		var stats *models.DashboardStats
		err := s.store.View(ctx, func(tx repositories.Tx) error {
			rooms, err := tx.Rooms().List(ctx)
			if err != nil {
				return err
			}
			students, err := tx.Students().List(ctx)
			if err != nil {
				return err
			}
			guests, err := tx.Guests().List(ctx)
			if err != nil {
				return err
			}
			stats = ComputeDashboard(rooms, len(students), len(guests))
			return nil
		})
		return stats, err
	})
}

// ComputeDashboard aggregates the counts. The occupancy rate is 0 when there
// is no capacity at all.
func ComputeDashboard(rooms []*models.Room, students, guests int) *models.DashboardStats {
	stats := &models.DashboardStats{
		TotalRooms:    len(rooms),
		TotalStudents: students,
		TotalGuests:   guests,
	}
	var current, capacity int
	for _, r := range rooms {
		current += r.CurrentCapacity
		capacity += r.MaxCapacity
		if r.CurrentCapacity > 0 {
			stats.OccupiedRooms++
		}
		switch r.Status {
		case models.RoomAvailable:
			stats.AvailableRooms++
		case models.RoomFull:
			stats.FullRooms++
		case models.RoomMaintenance:
			stats.MaintenanceRooms++
		}
	}
	if capacity > 0 {
		stats.OccupancyRate = int(math.Round(100 * float64(current) / float64(capacity)))
	}
	return stats
}

// Revenue returns paid revenue per month, oldest first
func (s *StatsService) Revenue(ctx context.Context, actor policy.Actor) ([]models.MonthlyRevenue, error) {
	if err := policy.Authorize(actor, policy.StatsRead); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, cache.RevenueKey, func(ctx context.Context) ([]models.MonthlyRevenue, error) {
		var series []models.MonthlyRevenue
		err := s.store.View(ctx, func(tx repositories.Tx) error {
			paid, err := tx.Bills().ListByStatus(ctx, models.BillPaid)
			if err != nil {
				return err
			}
			series = ComputeRevenue(paid)
			return nil
		})
		return series, err
	})
}

// ComputeRevenue groups PAID bills by month. Utility charges are recomputed
// from the meter readings rather than taken from the stored total.
func ComputeRevenue(bills []*models.Bill) []models.MonthlyRevenue {
	byMonth := make(map[string]*models.MonthlyRevenue)
	for _, b := range bills {
		if b.Status != models.BillPaid {
			continue
		}
		m, ok := byMonth[b.Month]
		if !ok {
			m = &models.MonthlyRevenue{Month: b.Month}
			byMonth[b.Month] = m
		}
		c := models.Compute(b)
		m.Electricity += c.Electricity
		m.Water += c.Water
		m.RoomFee += c.RoomFee
		m.Total += c.Total
	}

	series := make([]models.MonthlyRevenue, 0, len(byMonth))
	for _, m := range byMonth {
		series = append(series, *m)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
	return series
}
