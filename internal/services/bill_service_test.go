package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/models"
	"dorm-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBillDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t, "A101", 4)

	b, err := f.bills.Create(ctx, staff, &models.CreateBillRequest{
		RoomID:           r.ID,
		Month:            "2024-03",
		ElectricIndexOld: 100,
		ElectricIndexNew: 150,
		WaterIndexOld:    10,
		WaterIndexNew:    15,
	})
	require.NoError(t, err)

	assert.Equal(t, models.BillUnpaid, b.Status)
	assert.Equal(t, int64(1500000), b.RoomFee)
	assert.Equal(t, int64(50*3500+5*10000+1500000), b.TotalAmount)
	assert.Equal(t, "2024-03-10", timeutil.Format(b.DueDate, timeutil.DateLayout))
	assert.Nil(t, b.PaymentDate)
}

func TestCreateBillExplicitFeeAndDueDate(t *testing.T) {
	f := newFixture(t)
	r := f.room(t, "A102", 4)

	b, err := f.bills.Create(context.Background(), staff, &models.CreateBillRequest{
		RoomID:  r.ID,
		Month:   "2024-03",
		RoomFee: ptr(int64(0)),
		DueDate: "2024-03-20",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.TotalAmount)
	assert.Equal(t, "2024-03-20", timeutil.Format(b.DueDate, timeutil.DateLayout))
}

func TestCreateBillUnknownRoom(t *testing.T) {
	f := newFixture(t)
	_, err := f.bills.Create(context.Background(), staff, &models.CreateBillRequest{RoomID: "nope", Month: "2024-03"})
	assert.ErrorIs(t, err, apperr.NotFound)
}

func TestCreateBillRejectsOversizedIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t, "A103", 4)

	_, err := f.bills.Create(ctx, staff, &models.CreateBillRequest{
		RoomID:           r.ID,
		Month:            "2024-03",
		ElectricIndexNew: 1 << 62,
		RoomFee:          ptr(int64(0)),
	})
	assert.ErrorIs(t, err, apperr.InvalidInput)

	b, err := f.bills.Create(ctx, staff, &models.CreateBillRequest{RoomID: r.ID, Month: "2024-03"})
	require.NoError(t, err)
	_, err = f.bills.Update(ctx, staff, b.ID, &models.UpdateBillRequest{WaterIndexNew: ptr(int64(1) << 62)})
	assert.ErrorIs(t, err, apperr.InvalidInput)

	bills, err := f.bills.List(ctx, staff, BillFilter{})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, int64(1500000), bills[0].TotalAmount)
}

func TestPayIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t, "A103", 4)
	b, err := f.bills.Create(ctx, admin, &models.CreateBillRequest{RoomID: r.ID, Month: "2024-02"})
	require.NoError(t, err)

	paid, err := f.bills.Pay(ctx, staff, b.ID)
	require.NoError(t, err)
	require.NotNil(t, paid.PaymentDate)
	first := *paid.PaymentDate

	f.bills.now = func() time.Time { return f.now.Add(48 * time.Hour) }
	again, err := f.bills.Pay(ctx, staff, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, again.Status)
	assert.True(t, first.Equal(*again.PaymentDate))

	unpaid, err := f.bills.Unpay(ctx, staff, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillUnpaid, unpaid.Status)
	assert.Nil(t, unpaid.PaymentDate)
}

func TestUpdateBillRecomputes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t, "A104", 4)
	b, err := f.bills.Create(ctx, admin, &models.CreateBillRequest{RoomID: r.ID, Month: "2024-02", RoomFee: ptr(int64(1000))})
	require.NoError(t, err)

	got, err := f.bills.Update(ctx, admin, b.ID, &models.UpdateBillRequest{
		ElectricIndexNew: ptr(int64(10)),
		Status:           ptr(models.BillPaid),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10*3500+1000), got.TotalAmount)
	assert.Equal(t, models.BillPaid, got.Status)
	assert.NotNil(t, got.PaymentDate)
}

func TestListBillsFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r1 := f.room(t, "A105", 4)
	r2 := f.room(t, "A106", 4)
	b1, err := f.bills.Create(ctx, admin, &models.CreateBillRequest{RoomID: r1.ID, Month: "2024-02"})
	require.NoError(t, err)
	_, err = f.bills.Create(ctx, admin, &models.CreateBillRequest{RoomID: r1.ID, Month: "2024-03"})
	require.NoError(t, err)
	_, err = f.bills.Create(ctx, admin, &models.CreateBillRequest{RoomID: r2.ID, Month: "2024-03"})
	require.NoError(t, err)
	_, err = f.bills.Pay(ctx, admin, b1.ID)
	require.NoError(t, err)

	all, err := f.bills.List(ctx, staff, BillFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byRoom, err := f.bills.List(ctx, staff, BillFilter{RoomID: r1.ID})
	require.NoError(t, err)
	assert.Len(t, byRoom, 2)

	paid, err := f.bills.List(ctx, staff, BillFilter{RoomID: r1.ID, Status: models.BillPaid})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, b1.ID, paid[0].ID)

	_, err = f.bills.List(ctx, staff, BillFilter{Status: "LATE"})
	assert.ErrorIs(t, err, apperr.InvalidInput)
}

func TestReceiptPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.room(t, "A107", 4)
	b, err := f.bills.Create(ctx, admin, &models.CreateBillRequest{RoomID: r.ID, Month: "2024-02", ElectricIndexNew: 12})
	require.NoError(t, err)

	reports := NewReportService(f.store)
	pdf, err := reports.Receipt(ctx, staff, b.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	csvData, err := reports.BillsCSV(ctx, staff, "2024-02")
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "A107")

	zipData, err := reports.ReceiptsZip(ctx, staff, "2024-02")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(zipData, []byte("PK")))

	_, err = reports.BillsCSV(ctx, staff, "March")
	assert.ErrorIs(t, err, apperr.InvalidInput)
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "0 VND", formatVND(0))
	assert.Equal(t, "3.500 VND", formatVND(3500))
	assert.Equal(t, "1.500.000 VND", formatVND(1500000))
	assert.Equal(t, "-100.000 VND", formatVND(-100000))
}
