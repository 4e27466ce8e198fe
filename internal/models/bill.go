package models

import (
	"time"

	"dorm-backend/internal/timeutil"
)

type BillStatus string

const (
	BillUnpaid BillStatus = "UNPAID"
	BillPaid   BillStatus = "PAID"
)

func (s BillStatus) Valid() bool {
	switch s {
	case BillUnpaid, BillPaid:
		return true
	}
	return false
}

// Utility rates in VND per index unit
const (
	ElectricRate int64 = 3500
	WaterRate    int64 = 10000
)

// DueDay is the day of the bill month used when no due date is given
const DueDay = 10

type Bill struct {
	ID               string     `json:"id"`
	RoomID           string     `json:"room_id"`
	Month            string     `json:"month"` // YYYY-MM
	ElectricIndexOld int64      `json:"electric_index_old"`
	ElectricIndexNew int64      `json:"electric_index_new"`
	WaterIndexOld    int64      `json:"water_index_old"`
	WaterIndexNew    int64      `json:"water_index_new"`
	RoomFee          int64      `json:"room_fee"`
	TotalAmount      int64      `json:"total_amount"`
	Status           BillStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	DueDate          time.Time  `json:"due_date"`
	PaymentDate      *time.Time `json:"payment_date"`
}

func (b Bill) Clone() Bill {
	if b.PaymentDate != nil {
		t := *b.PaymentDate
		b.PaymentDate = &t
	}
	return b
}

// Charges is the breakdown of a bill's total
type Charges struct {
	Electricity int64 `json:"electricity"`
	Water       int64 `json:"water"`
	RoomFee     int64 `json:"room_fee"`
	Total       int64 `json:"total"`
}

// Compute derives the charges from meter readings. A reading that went
// backwards yields zero for that utility instead of a negative charge.
func Compute(b *Bill) Charges {
	c := Charges{
		Electricity: max(0, b.ElectricIndexNew-b.ElectricIndexOld) * ElectricRate,
		Water:       max(0, b.WaterIndexNew-b.WaterIndexOld) * WaterRate,
		RoomFee:     b.RoomFee,
	}
	c.Total = c.Electricity + c.Water + c.RoomFee
	return c
}

// Recompute refreshes the stored TotalAmount
func (b *Bill) Recompute() {
	b.TotalAmount = Compute(b).Total
}

// DefaultDueDate returns the DueDay of the given YYYY-MM month at local midnight
func DefaultDueDate(month string) (time.Time, error) {
	first, err := timeutil.ParseMonth(month)
	if err != nil {
		return time.Time{}, err
	}
	return first.AddDate(0, 0, DueDay-1), nil
}

// Pay marks the bill paid. Paying an already paid bill keeps the original
// payment date.
func (b *Bill) Pay(now time.Time) {
	if b.Status == BillPaid && b.PaymentDate != nil {
		return
	}
	b.Status = BillPaid
	b.PaymentDate = &now
}

// Unpay reverts the bill to unpaid and clears the payment date
func (b *Bill) Unpay() {
	b.Status = BillUnpaid
	b.PaymentDate = nil
}

func (b *Bill) IsOverdue(now time.Time) bool {
	switch b.Status {
	case BillPaid:
		return false
	case BillUnpaid:
		return now.After(b.DueDate)
	}
	return false
}

// CreateBillRequest represents the request body for issuing a bill.
// RoomFee defaults to the room's monthly price, DueDate to the 10th of Month.
// Meter indices are capped at 10^12 and fees at 10^15 so that Compute cannot
// overflow int64.
type CreateBillRequest struct {
	RoomID           string `json:"room_id" validate:"required"`
	Month            string `json:"month" validate:"required,datetime=2006-01"`
	ElectricIndexOld int64  `json:"electric_index_old" validate:"min=0,max=1000000000000"`
	ElectricIndexNew int64  `json:"electric_index_new" validate:"min=0,max=1000000000000"`
	WaterIndexOld    int64  `json:"water_index_old" validate:"min=0,max=1000000000000"`
	WaterIndexNew    int64  `json:"water_index_new" validate:"min=0,max=1000000000000"`
	RoomFee          *int64 `json:"room_fee" validate:"omitempty,min=0,max=1000000000000000"`
	DueDate          string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateBillRequest struct {
	RoomID           *string     `json:"room_id" validate:"omitempty,min=1"`
	Month            *string     `json:"month" validate:"omitempty,datetime=2006-01"`
	ElectricIndexOld *int64      `json:"electric_index_old" validate:"omitempty,min=0,max=1000000000000"`
	ElectricIndexNew *int64      `json:"electric_index_new" validate:"omitempty,min=0,max=1000000000000"`
	WaterIndexOld    *int64      `json:"water_index_old" validate:"omitempty,min=0,max=1000000000000"`
	WaterIndexNew    *int64      `json:"water_index_new" validate:"omitempty,min=0,max=1000000000000"`
	RoomFee          *int64      `json:"room_fee" validate:"omitempty,min=0,max=1000000000000000"`
	DueDate          *string     `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status           *BillStatus `json:"status" validate:"omitempty,oneof=UNPAID PAID"`
}

// Apply merges the meter and fee fields and recomputes the total. DueDate and
// Status are handled by the caller since they need parsing and a clock.
func (u *UpdateBillRequest) Apply(b *Bill) {
	if u.RoomID != nil {
		b.RoomID = *u.RoomID
	}
	if u.Month != nil {
		b.Month = *u.Month
	}
	if u.ElectricIndexOld != nil {
		b.ElectricIndexOld = *u.ElectricIndexOld
	}
	if u.ElectricIndexNew != nil {
		b.ElectricIndexNew = *u.ElectricIndexNew
	}
	if u.WaterIndexOld != nil {
		b.WaterIndexOld = *u.WaterIndexOld
	}
	if u.WaterIndexNew != nil {
		b.WaterIndexNew = *u.WaterIndexNew
	}
	if u.RoomFee != nil {
		b.RoomFee = *u.RoomFee
	}
	b.Recompute()
}
