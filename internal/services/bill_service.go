package services

import (
	"context"
	"time"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/cache"
	"dorm-backend/internal/metrics"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
	"dorm-backend/internal/timeutil"
)

// BillService issues monthly bills and records payments
type BillService struct {
	store repositories.Store
	now   func() time.Time
}

func NewBillService(store repositories.Store, now func() time.Time) *BillService {
	if now == nil {
		now = timeutil.Now
	}
	return &BillService{store: store, now: now}
}

// BillFilter narrows List; zero values mean no filter
type BillFilter struct {
	RoomID string
	Status models.BillStatus
}

func (s *BillService) List(ctx context.Context, actor policy.Actor, f BillFilter) ([]*models.Bill, error) {
	if err := policy.Authorize(actor, policy.BillRead); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.New(apperr.InvalidInput, "unknown bill status %q", f.Status)
	}

	load := func(ctx context.Context) (bills []*models.Bill, err error) {
		err = s.store.View(ctx, func(tx repositories.Tx) error {
			switch {
			case f.RoomID != "":
				bills, err = tx.Bills().ListByRoom(ctx, f.RoomID)
			case f.Status != "":
				bills, err = tx.Bills().ListByStatus(ctx, f.Status)
			default:
				bills, err = tx.Bills().List(ctx)
			}
			return err
		})
		if err != nil || f.RoomID == "" || f.Status == "" {
			return bills, err
		}
		filtered := make([]*models.Bill, 0, len(bills))
		for _, b := range bills {
			if b.Status == f.Status {
				filtered = append(filtered, b)
			}
		}
		return filtered, nil
	}
	if f == (BillFilter{}) {
		return cache.Fetch(ctx, cache.BillsListKey, load)
	}
	return load(ctx)
}

func (s *BillService) Get(ctx context.Context, actor policy.Actor, id string) (b *models.Bill, err error) {
	if err := policy.Authorize(actor, policy.BillRead); err != nil {
		return nil, err
	}
	err = s.store.View(ctx, func(tx repositories.Tx) error {
		b, err = tx.Bills().Get(ctx, id)
		return err
	})
	return b, err
}

// Create issues an unpaid bill. The room fee defaults to the room's monthly
// price and the due date to the 10th of the bill month.
func (s *BillService) Create(ctx context.Context, actor policy.Actor, req *models.CreateBillRequest) (*models.Bill, error) {
	if err := policy.Authorize(actor, policy.BillCreate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var (
		due time.Time
		err error
	)
	if req.DueDate != "" {
		due, err = timeutil.ParseDate(req.DueDate)
	} else {
		due, err = models.DefaultDueDate(req.Month)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, err, "invalid due date")
	}

	bill := &models.Bill{
		RoomID:           req.RoomID,
		Month:            req.Month,
		ElectricIndexOld: req.ElectricIndexOld,
		ElectricIndexNew: req.ElectricIndexNew,
		WaterIndexOld:    req.WaterIndexOld,
		WaterIndexNew:    req.WaterIndexNew,
		Status:           models.BillUnpaid,
		DueDate:          due,
	}

	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		room, err := tx.Rooms().Get(ctx, req.RoomID)
		if err != nil {
			return err
		}
		if req.RoomFee != nil {
			bill.RoomFee = *req.RoomFee
		} else {
			bill.RoomFee = room.PricePerMonth
		}
		bill.Recompute()
		return tx.Bills().Create(ctx, bill)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateBillCaches(ctx)
	return bill, nil
}

// Update edits readings, fee, room or month and recomputes the total. A
// status in the request is applied through Pay/Unpay.
func (s *BillService) Update(ctx context.Context, actor policy.Actor, id string, req *models.UpdateBillRequest) (b *models.Bill, err error) {
	if err := policy.Authorize(actor, policy.BillUpdate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	var due *time.Time
	if req.DueDate != nil {
		d, err := timeutil.ParseDate(*req.DueDate)
		if err != nil {
			return nil, apperr.Wrap(apperr.InvalidInput, err, "invalid due date")
		}
		due = &d
	}

	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		b, err = tx.Bills().Get(ctx, id)
		if err != nil {
			return err
		}
		if req.RoomID != nil && *req.RoomID != b.RoomID {
			if _, err := tx.Rooms().Get(ctx, *req.RoomID); err != nil {
				return err
			}
		}
		req.Apply(b)
		if due != nil {
			b.DueDate = *due
		}
		if req.Status != nil {
			switch *req.Status {
			case models.BillPaid:
				b.Pay(s.now())
			case models.BillUnpaid:
				b.Unpay()
			}
		}
		return tx.Bills().Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateBillCaches(ctx)
	return b, nil
}

// Pay marks a bill paid. Paying twice keeps the first payment date.
func (s *BillService) Pay(ctx context.Context, actor policy.Actor, id string) (b *models.Bill, err error) {
	if err := policy.Authorize(actor, policy.BillPay); err != nil {
		return nil, err
	}
	var newlyPaid bool
	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		b, err = tx.Bills().Get(ctx, id)
		if err != nil {
			return err
		}
		newlyPaid = b.Status != models.BillPaid
		b.Pay(s.now())
		return tx.Bills().Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	if newlyPaid {
		metrics.BillsPaidTotal.Inc()
	}
	cache.InvalidateBillCaches(ctx)
	return b, nil
}

func (s *BillService) Unpay(ctx context.Context, actor policy.Actor, id string) (b *models.Bill, err error) {
	if err := policy.Authorize(actor, policy.BillUnpay); err != nil {
		return nil, err
	}
	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		b, err = tx.Bills().Get(ctx, id)
		if err != nil {
			return err
		}
		b.Unpay()
		return tx.Bills().Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateBillCaches(ctx)
	return b, nil
}

func (s *BillService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := policy.Authorize(actor, policy.BillDelete); err != nil {
		return err
	}
	if err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		return tx.Bills().Delete(ctx, id)
	}); err != nil {
		return err
	}
	cache.InvalidateBillCaches(ctx)
	return nil
}
