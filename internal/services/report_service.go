package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
	"dorm-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptData holds everything printed on one bill receipt
type ReceiptData struct {
	Bill     *models.Bill
	Room     *models.Room
	Building *models.Building // nil if the building was removed
	Charges  models.Charges
}

// ReportService renders bill receipts and exports
type ReportService struct {
	store repositories.Store
}

func NewReportService(store repositories.Store) *ReportService {
	return &ReportService{store: store}
}

func loadReceipt(ctx context.Context, tx repositories.Tx, b *models.Bill) (*ReceiptData, error) {
	data := &ReceiptData{Bill: b, Charges: models.Compute(b)}
	room, err := tx.Rooms().Get(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}
	data.Room = room
	if building, err := tx.Buildings().Get(ctx, room.BuildingID); err == nil {
		data.Building = building
	}
	return data, nil
}

// Receipt renders the PDF receipt of a single bill
func (s *ReportService) Receipt(ctx context.Context, actor policy.Actor, billID string) ([]byte, error) {
	if err := policy.Authorize(actor, policy.BillRead); err != nil {
		return nil, err
	}
	var data *ReceiptData
	err := s.store.View(ctx, func(tx repositories.Tx) error {
		b, err := tx.Bills().Get(ctx, billID)
		if err != nil {
			return err
		}
		data, err = loadReceipt(ctx, tx, b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return GenerateReceiptPDF(data)
}

func formatVND(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := v < 0
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out) + " VND"
	}
	return string(out) + " VND"
}

// GenerateReceiptPDF renders a receipt with the charge breakdown
func GenerateReceiptPDF(data *ReceiptData) ([]byte, error) {
	b := data.Bill
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Dormitory - Monthly Bill", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Format(timeutil.Now(), timeutil.DateTimeLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Room
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Room Information", "1", 1, "L", true, 0, "")
	building := "-"
	if data.Building != nil {
		building = data.Building.Name
	}
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Room: %s", data.Room.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Building: %s", building), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Month: %s", b.Month), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Due: %s", timeutil.Format(b.DueDate, timeutil.DisplayLayout)), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Charges table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(50, 7, "Item", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Old", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "New", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Rate", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	rows := []struct {
		item     string
		old, new int64
		rate     int64
		amount   int64
	}{
		{"Electricity", b.ElectricIndexOld, b.ElectricIndexNew, models.ElectricRate, data.Charges.Electricity},
		{"Water", b.WaterIndexOld, b.WaterIndexNew, models.WaterRate, data.Charges.Water},
	}
	for _, r := range rows {
		pdf.CellFormat(50, 6, r.item, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, strconv.FormatInt(r.old, 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.FormatInt(r.new, 10), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, formatVND(r.rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, formatVND(r.amount), "1", 1, "R", false, 0, "")
	}
	pdf.CellFormat(140, 6, "Room fee", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, formatVND(data.Charges.RoomFee), "1", 1, "R", false, 0, "")
	pdf.Ln(5)

	// Total
	if b.Status == models.BillPaid {
		pdf.SetFillColor(200, 255, 200)
	} else {
		pdf.SetFillColor(255, 200, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	status := "UNPAID"
	if b.Status == models.BillPaid && b.PaymentDate != nil {
		status = "PAID " + timeutil.Format(*b.PaymentDate, timeutil.DisplayLayout)
	}
	pdf.CellFormat(190, 10, fmt.Sprintf("Total: %s (%s)", formatVND(data.Charges.Total), status), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportService) monthReceipts(ctx context.Context, month string) ([]*ReceiptData, error) {
	if _, err := timeutil.ParseMonth(month); err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, err, "invalid month %q", month)
	}
	var out []*ReceiptData
	err := s.store.View(ctx, func(tx repositories.Tx) error {
		bills, err := tx.Bills().List(ctx)
		if err != nil {
			return err
		}
		for _, b := range bills {
			if b.Month != month {
				continue
			}
			data, err := loadReceipt(ctx, tx, b)
			if err != nil {
				return err
			}
			out = append(out, data)
		}
		return nil
	})
	return out, err
}

// BillsCSV exports every bill of a month
func (s *ReportService) BillsCSV(ctx context.Context, actor policy.Actor, month string) ([]byte, error) {
	if err := policy.Authorize(actor, policy.BillRead); err != nil {
		return nil, err
	}
	receipts, err := s.monthReceipts(ctx, month)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"#", "Room", "Month", "Electricity", "Water", "Room Fee", "Total", "Status", "Due Date", "Payment Date",
	})
	for i, r := range receipts {
		paid := ""
		if r.Bill.PaymentDate != nil {
			paid = timeutil.Format(*r.Bill.PaymentDate, timeutil.DateLayout)
		}
		w.Write([]string{
			strconv.Itoa(i + 1),
			r.Room.Name,
			r.Bill.Month,
			strconv.FormatInt(r.Charges.Electricity, 10),
			strconv.FormatInt(r.Charges.Water, 10),
			strconv.FormatInt(r.Charges.RoomFee, 10),
			strconv.FormatInt(r.Charges.Total, 10),
			string(r.Bill.Status),
			timeutil.Format(r.Bill.DueDate, timeutil.DateLayout),
			paid,
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ReceiptsZip renders all receipts of a month in parallel and zips them
func (s *ReportService) ReceiptsZip(ctx context.Context, actor policy.Actor, month string) ([]byte, error) {
	if err := policy.Authorize(actor, policy.BillRead); err != nil {
		return nil, err
	}
	receipts, err := s.monthReceipts(ctx, month)
	if err != nil {
		return nil, err
	}

	type pdfResult struct {
		name string
		data []byte
		err  error
	}
	results := make(chan pdfResult, len(receipts))
	jobs := make(chan *ReceiptData, len(receipts))

	var wg sync.WaitGroup
	numWorkers := 4
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				data, err := GenerateReceiptPDF(r)
				results <- pdfResult{
					name: fmt.Sprintf("bill_%s_%s_%s.pdf", r.Bill.Month, r.Room.Name, r.Bill.ID),
					data: data,
					err:  err,
				}
			}
		}()
	}
	for _, r := range receipts {
		jobs <- r
	}
	close(jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		fw, err := zw.Create(r.name)
		if err != nil {
			continue
		}
		fw.Write(r.data)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
