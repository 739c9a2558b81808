package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/server/authctx"
	"rubberops-backend/internal/service"
)

type AttendanceHandler struct {
	Service *service.AttendanceService
}

func (h AttendanceHandler) RegisterStaffRoutes(r chi.Router) {
	r.Post("/attendance/checkin", h.checkIn)
	r.Post("/attendance/checkout", h.checkOut)
}

func (h AttendanceHandler) RegisterReportRoutes(r chi.Router) {
	r.Get("/attendance/today-all", h.todayAll)
	r.Get("/attendance/export", h.export)
}

func (h AttendanceHandler) RegisterScannerRoutes(r chi.Router) {
	r.Post("/scanner/attendance", h.scan)
}

func (h AttendanceHandler) checkIn(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	// Body is optional for a plain check-in.
	_ = json.NewDecoder(r.Body).Decode(&req)

	rec, err := h.Service.CheckIn(r.Context(), user.ID, domain.SourceManual, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attendancePayload(*rec))
}

func (h AttendanceHandler) checkOut(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rec, err := h.Service.CheckOut(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attendancePayload(*rec))
}

func (h AttendanceHandler) scan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RFIDUid string `json:"rfidUid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.RFIDUid == "" {
		writeError(w, http.StatusBadRequest, "rfidUid is required")
		return
	}
	res, err := h.Service.Scan(r.Context(), req.RFIDUid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	payload := attendancePayload(*res.Record)
	payload["action"] = res.Action
	payload["staffName"] = res.Staff.Name
	writeJSON(w, http.StatusOK, payload)
}

func (h AttendanceHandler) todayAll(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format")
		return
	}
	if day == nil {
		now := time.Now()
		day = &now
	}
	var source *domain.AttendanceSource
	if s := r.URL.Query().Get("source"); s != "" {
		src := domain.AttendanceSource(s)
		if src != domain.SourceManual && src != domain.SourceRFID {
			writeError(w, http.StatusBadRequest, "source must be manual or rfid")
			return
		}
		source = &src
	}

	items, err := h.Service.ListByDate(r.Context(), *day, source)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, a := range items {
		resp = append(resp, attendancePayload(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h AttendanceHandler) export(w http.ResponseWriter, r *http.Request) {
	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		writeError(w, http.StatusBadRequest, "month is required")
		return
	}
	month, err := time.Parse("2006-01", monthStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format")
		return
	}

	items, err := h.Service.ListMonth(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	buf, err := buildAttendanceWorkbook(items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance-`+monthStr+`.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func buildAttendanceWorkbook(items []domain.Attendance) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Date", "Staff", "Staff Code", "Check In", "Check Out", "Status", "Source", "Notes"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, a := range items {
		row := r + 2
		checkOut := ""
		if a.CheckOut != nil {
			checkOut = a.CheckOut.Format("15:04")
		}
		code := ""
		if a.StaffCode != nil {
			code = *a.StaffCode
		}
		values := []any{
			a.Date.Format(dateLayout),
			a.StaffName,
			code,
			a.CheckIn.Format("15:04"),
			checkOut,
			string(a.Status),
			string(a.Source),
			a.Notes,
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

func attendancePayload(a domain.Attendance) map[string]any {
	return map[string]any{
		"id":        a.ID,
		"staffId":   a.StaffID,
		"staffName": a.StaffName,
		"staffCode": a.StaffCode,
		"date":      a.Date.Format(dateLayout),
		"checkIn":   a.CheckIn.Format(time.RFC3339),
		"checkOut":  timeOrNil(a.CheckOut),
		"status":    string(a.Status),
		"source":    string(a.Source),
		"notes":     a.Notes,
	}
}
