package handlers

import (
	"fmt"
	"net/http"

	"dorm-backend/internal/models"
	"dorm-backend/internal/services"
	"dorm-backend/pkg/utils"
)

type BillHandler struct {
	Service *services.BillService
	Reports *services.ReportService
}

func NewBillHandler(s *services.BillService, reports *services.ReportService) *BillHandler {
	return &BillHandler{Service: s, Reports: reports}
}

// List supports ?room_id= and ?status=PAID|UNPAID
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bills, err := h.Service.List(r.Context(), actorFrom(r), services.BillFilter{
		RoomID: q.Get("room_id"),
		Status: models.BillStatus(q.Get("status")),
	})
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, bills)
}

func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.Get(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, b)
}

func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	b, err := h.Service.Create(r.Context(), actorFrom(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, b)
}

func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	b, err := h.Service.Update(r.Context(), actorFrom(r), pathID(r), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, b)
}

func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), actorFrom(r), pathID(r)); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BillHandler) Pay(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.Pay(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, b)
}

func (h *BillHandler) Unpay(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.Unpay(r.Context(), actorFrom(r), pathID(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, b)
}

// Receipt streams the PDF receipt of a bill
func (h *BillHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	pdf, err := h.Reports.Receipt(r.Context(), actorFrom(r), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeBinary(w, "application/pdf", fmt.Sprintf("bill_%s.pdf", id), pdf)
}

// ExportCSV handles GET /api/bills/export/csv?month=YYYY-MM
func (h *BillHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	data, err := h.Reports.BillsCSV(r.Context(), actorFrom(r), month)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeBinary(w, "text/csv", fmt.Sprintf("bills_%s.csv", month), data)
}

// ExportReceipts handles GET /api/bills/export/receipts?month=YYYY-MM
func (h *BillHandler) ExportReceipts(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	data, err := h.Reports.ReceiptsZip(r.Context(), actorFrom(r), month)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeBinary(w, "application/zip", fmt.Sprintf("receipts_%s.zip", month), data)
}
