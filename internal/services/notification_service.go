package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
	"dorm-backend/internal/timeutil"
)

// WarningDays is how close to the due date an unpaid bill starts warning
const WarningDays = 3

// NotificationService recomputes payment alerts from current bill state on
// every call. Nothing is stored or cached.
type NotificationService struct {
	store repositories.Store
	now   func() time.Time
}

func NewNotificationService(store repositories.Store, now func() time.Time) *NotificationService {
	if now == nil {
		now = timeutil.Now
	}
	return &NotificationService{store: store, now: now}
}

func (s *NotificationService) List(ctx context.Context, actor policy.Actor) ([]models.Notification, error) {
	if err := policy.Authorize(actor, policy.NotificationsRead); err != nil {
		return nil, err
	}
	var out []models.Notification
	err := s.store.View(ctx, func(tx repositories.Tx) error {
		unpaid, err := tx.Bills().ListByStatus(ctx, models.BillUnpaid)
		if err != nil {
			return err
		}
		rooms, err := tx.Rooms().List(ctx)
		if err != nil {
			return err
		}
		names := make(map[string]string, len(rooms))
		for _, r := range rooms {
			names[r.ID] = r.Name
		}
		out = DeriveNotifications(unpaid, names, s.now())
		return nil
	})
	return out, err
}

// DaysUntilDue rounds the time left up to whole days; negative means overdue
func DaysUntilDue(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// DeriveNotifications returns overdue (danger) and due-soon (warning) alerts
// for unpaid bills, most urgent first.
func DeriveNotifications(bills []*models.Bill, roomNames map[string]string, now time.Time) []models.Notification {
	out := make([]models.Notification, 0)
	for _, b := range bills {
		if b.Status != models.BillUnpaid {
			continue
		}
		days := DaysUntilDue(b.DueDate, now)
		n := models.Notification{
			BillID:       b.ID,
			RoomID:       b.RoomID,
			RoomName:     roomNames[b.RoomID],
			Month:        b.Month,
			DaysUntilDue: days,
			Amount:       b.TotalAmount,
			DueDate:      b.DueDate,
		}
		label := n.RoomName
		if label == "" {
			label = b.RoomID
		}
		switch {
		case days < 0:
			n.Level = models.NotificationDanger
			n.Message = fmt.Sprintf("Bill %s for room %s is overdue by %d day(s)", b.Month, label, -days)
		case days <= WarningDays:
			n.Level = models.NotificationWarning
			n.Message = fmt.Sprintf("Bill %s for room %s is due in %d day(s)", b.Month, label, days)
		default:
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntilDue != out[j].DaysUntilDue {
			return out[i].DaysUntilDue < out[j].DaysUntilDue
		}
		return out[i].BillID < out[j].BillID
	})
	return out
}
