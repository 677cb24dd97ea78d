package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tamvems/internal/auth"
	"tamvems/internal/db"
	"tamvems/internal/repository"
	"tamvems/internal/service"
	"tamvems/internal/utils"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	bookings *service.BookingService
	export   *service.ExportService
}

func NewAdminHandler(bookings *service.BookingService, export *service.ExportService) *AdminHandler {
	return &AdminHandler{bookings: bookings, export: export}
}

// ListBookings returns every request, optionally filtered by status, a
// requester id, or a local start date.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.BookingFilter{
		Status: db.RequestStatus(q.Get("status")),
	}
	if v := q.Get("requester_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid requester_id", http.StatusBadRequest)
			return
		}
		filter.RequesterID = id
	}
	if date := q.Get("date"); date != "" {
		start, err := utils.ParseLocalDateTime(date, "00:00")
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		end := start.AddDate(0, 0, 1)
		filter.From = &start
		filter.To = &end
	}

	list, err := h.bookings.ListAll(filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	resp, err := h.bookings.Approve(caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.bookings.Reject(caller, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportBookings streams an xlsx report for the start_date..end_date range
// (local dates, end inclusive).
func (h *AdminHandler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := utils.ParseLocalDateTime(q.Get("start_date"), "00:00")
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}
	to, err := utils.ParseLocalDateTime(q.Get("end_date"), "00:00")
	if err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}
	to = to.AddDate(0, 0, 1)
	if !to.After(from) {
		http.Error(w, "end_date must not precede start_date", http.StatusBadRequest)
		return
	}

	workbook, err := h.export.BookingsWorkbook(from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().In(utils.BusinessLocation()).Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	workbook.Write(w)
}
