package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/server/authctx"
	"rubberops-backend/internal/service"
)

type BillHandler struct {
	Service  *service.BillService
	Currency string
}

func (h BillHandler) RegisterAccountingRoutes(r chi.Router) {
	r.Post("/bills", h.create)
	r.Get("/bills", h.list)
	r.Get("/bills/export", h.export)
}

func (h BillHandler) RegisterManagerRoutes(r chi.Router) {
	r.Post("/bills/{id}/verify", h.verify)
}

func (h BillHandler) RegisterCustomerRoutes(r chi.Router) {
	r.Get("/bills/user/my-bills", h.myBills)
}

func (h BillHandler) create(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		CustomerUserID  *int64  `json:"customerUserId"`
		CustomerName    string  `json:"customerName"`
		CustomerPhone   string  `json:"customerPhone"`
		SampleID        string  `json:"sampleId"`
		DRCPercent      float64 `json:"drcPercent"`
		BarrelCount     int     `json:"barrelCount"`
		LatexVolume     float64 `json:"latexVolume"`
		MarketRate      float64 `json:"marketRate"`
		AccountantNotes string  `json:"accountantNotes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	bill, err := h.Service.Create(r.Context(), service.CreateBillInput{
		CustomerUserID:  req.CustomerUserID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		SampleID:        req.SampleID,
		DRCPercent:      req.DRCPercent,
		BarrelCount:     req.BarrelCount,
		LatexVolume:     req.LatexVolume,
		MarketRate:      req.MarketRate,
		AccountantNotes: req.AccountantNotes,
		CreatedBy:       user.ID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.billPayload(*bill))
}

func (h BillHandler) verify(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	bill, err := h.Service.Verify(r.Context(), id, domain.BillStatus(req.Status), user.ID, user.Email, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.billPayload(*bill))
}

func (h BillHandler) list(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.Service.List(r.Context(), startDate, endDate, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.billPayloads(items))
}

func (h BillHandler) myBills(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	items, err := h.Service.ListForCustomer(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.billPayloads(items))
}

func (h BillHandler) export(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}

	items, err := h.Service.List(r.Context(), startDate, endDate, 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	buf, err := h.buildWorkbook(items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bills.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (h BillHandler) buildWorkbook(items []domain.Bill) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Bills"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Bill No", "Customer", "Sample", "DRC %", "Barrels", "Volume (L)", "Rate", "Total (" + h.Currency + ")", "Status", "Date"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, b := range items {
		row := r + 2
		values := []any{
			b.BillNumber,
			b.CustomerName,
			b.SampleID,
			b.DRCPercent,
			b.BarrelCount,
			b.LatexVolume,
			b.MarketRate,
			b.TotalAmount,
			string(b.Status),
			b.CreatedAt.Format(dateLayout),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (h BillHandler) billPayload(b domain.Bill) map[string]any {
	return map[string]any{
		"id":              b.ID,
		"billNumber":      b.BillNumber,
		"customerUserId":  b.CustomerUserID,
		"customerName":    b.CustomerName,
		"customerPhone":   b.CustomerPhone,
		"sampleId":        b.SampleID,
		"drcPercent":      b.DRCPercent,
		"barrelCount":     b.BarrelCount,
		"latexVolume":     b.LatexVolume,
		"marketRate":      b.MarketRate,
		"totalAmount":     b.TotalAmount,
		"currency":        h.Currency,
		"status":          string(b.Status),
		"accountantNotes": b.AccountantNotes,
		"verifiedAt":      timeOrNil(b.VerifiedAt),
		"createdAt":       b.CreatedAt.Format(dateLayout),
	}
}

func (h BillHandler) billPayloads(items []domain.Bill) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, b := range items {
		out = append(out, h.billPayload(b))
	}
	return out
}
