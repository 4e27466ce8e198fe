package models

import (
	"testing"
	"time"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		bill Bill
		want Charges
	}{
		{
			name: "electricity water and fee",
			bill: Bill{ElectricIndexOld: 100, ElectricIndexNew: 150, WaterIndexOld: 50, WaterIndexNew: 60, RoomFee: 2000000},
			want: Charges{Electricity: 175000, Water: 100000, RoomFee: 2000000, Total: 2275000},
		},
		{
			name: "electric meter went backwards",
			bill: Bill{ElectricIndexOld: 200, ElectricIndexNew: 150, WaterIndexOld: 10, WaterIndexNew: 12, RoomFee: 500},
			want: Charges{Electricity: 0, Water: 20000, RoomFee: 500, Total: 20500},
		},
		{
			name: "no consumption",
			bill: Bill{ElectricIndexOld: 7, ElectricIndexNew: 7, WaterIndexOld: 3, WaterIndexNew: 1},
			want: Charges{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(&tt.bill))
		})
	}
}

func TestRecomputeStoresTotal(t *testing.T) {
	b := &Bill{ElectricIndexOld: 100, ElectricIndexNew: 150, WaterIndexOld: 50, WaterIndexNew: 60, RoomFee: 2000000}
	b.Recompute()
	assert.Equal(t, int64(2275000), b.TotalAmount)
}

func TestDefaultDueDate(t *testing.T) {
	due, err := DefaultDueDate("2024-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", timeutil.Format(due, timeutil.DateLayout))

	_, err = DefaultDueDate("March")
	assert.Error(t, err)
}

func TestPayIsIdempotent(t *testing.T) {
	first := time.Date(2024, 3, 5, 9, 0, 0, 0, timeutil.Local)
	b := &Bill{Status: BillUnpaid}

	b.Pay(first)
	b.Pay(first.Add(time.Hour))

	assert.Equal(t, BillPaid, b.Status)
	require.NotNil(t, b.PaymentDate)
	assert.True(t, b.PaymentDate.Equal(first))

	b.Unpay()
	b.Unpay()
	assert.Equal(t, BillUnpaid, b.Status)
	assert.Nil(t, b.PaymentDate)
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2024, 3, 10, 0, 0, 0, 0, timeutil.Local)
	b := &Bill{Status: BillUnpaid, DueDate: due}

	assert.False(t, b.IsOverdue(due))
	assert.True(t, b.IsOverdue(due.Add(time.Minute)))

	b.Pay(due.Add(-time.Hour))
	assert.False(t, b.IsOverdue(due.Add(48*time.Hour)))
}

func TestBillCloneDetachesPaymentDate(t *testing.T) {
	now := time.Now()
	b := Bill{Status: BillPaid, PaymentDate: &now}
	c := b.Clone()
	*c.PaymentDate = now.Add(time.Hour)
	assert.True(t, b.PaymentDate.Equal(now))
}

func TestValidateCreateBillRequest(t *testing.T) {
	err := Validate(&CreateBillRequest{RoomID: "r1", Month: "2024-13"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.InvalidInput)
	assert.Contains(t, err.Error(), "month")

	assert.NoError(t, Validate(&CreateBillRequest{RoomID: "r1", Month: "2024-03", DueDate: "2024-03-15"}))
}

func TestMeterIndexBounds(t *testing.T) {
	tests := []struct {
		name string
		req  any
		ok   bool
	}{
		{"create at cap", &CreateBillRequest{RoomID: "r1", Month: "2024-03", ElectricIndexNew: 1_000_000_000_000}, true},
		{"create electric over cap", &CreateBillRequest{RoomID: "r1", Month: "2024-03", ElectricIndexNew: 1 << 62}, false},
		{"create water over cap", &CreateBillRequest{RoomID: "r1", Month: "2024-03", WaterIndexNew: 1_000_000_000_001}, false},
		{"create fee over cap", &CreateBillRequest{RoomID: "r1", Month: "2024-03", RoomFee: ptrTo(int64(1) << 60)}, false},
		{"update electric over cap", &UpdateBillRequest{ElectricIndexNew: ptrTo(int64(1) << 62)}, false},
		{"update fee at cap", &UpdateBillRequest{RoomFee: ptrTo(int64(1_000_000_000_000_000))}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.InvalidInput)
		})
	}
}

func TestComputeAtBoundsDoesNotOverflow(t *testing.T) {
	b := &Bill{
		ElectricIndexNew: 1_000_000_000_000,
		WaterIndexNew:    1_000_000_000_000,
		RoomFee:          1_000_000_000_000_000,
	}
	c := Compute(b)
	assert.Equal(t, int64(3_500_000_000_000_000), c.Electricity)
	assert.Equal(t, int64(10_000_000_000_000_000), c.Water)
	assert.Equal(t, int64(14_500_000_000_000_000), c.Total)
	assert.Positive(t, c.Total)
}

func ptrTo[T any](v T) *T { return &v }
