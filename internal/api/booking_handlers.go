package api

import (
	"net/http"
	"strconv"

	"tamvems/internal/auth"
	"tamvems/internal/entities"
	"tamvems/internal/service"
	"tamvems/internal/utils"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookings     *service.BookingService
	availability *service.AvailabilityService
}

func NewBookingHandler(bookings *service.BookingService, availability *service.AvailabilityService) *BookingHandler {
	return &BookingHandler{bookings: bookings, availability: availability}
}

// CheckAvailability reports per-vehicle availability. Query parameters date,
// start_time and end_time (local wall-clock) are optional as a group: with
// none supplied only the unreturned-vehicle rule applies.
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	startClock := q.Get("start_time")
	endClock := q.Get("end_time")

	var window *entities.Window
	if date != "" || startClock != "" || endClock != "" {
		if date == "" || startClock == "" || endClock == "" {
			http.Error(w, "date, start_time and end_time must be supplied together", http.StatusBadRequest)
			return
		}
		start, err := utils.ParseLocalDateTime(date, startClock)
		if err != nil {
			http.Error(w, "invalid date or start_time", http.StatusBadRequest)
			return
		}
		end, err := utils.ParseLocalDateTime(date, endClock)
		if err != nil {
			http.Error(w, "invalid end_time", http.StatusBadRequest)
			return
		}
		if !end.After(start) {
			http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
			return
		}
		window = &entities.Window{Start: start, End: end}
	}

	resp, err := h.availability.Resolve(window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateBooking files a new request from a multipart form: vehicle_id,
// destination, date, start_time, end_time, optional requester_id for admins,
// and the mandatory "document" file.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	vehicleID, err := strconv.Atoi(r.FormValue("vehicle_id"))
	if err != nil {
		http.Error(w, "invalid vehicle_id", http.StatusBadRequest)
		return
	}

	start, err := utils.ParseLocalDateTime(r.FormValue("date"), r.FormValue("start_time"))
	if err != nil {
		http.Error(w, "invalid date or start_time", http.StatusBadRequest)
		return
	}
	end, err := utils.ParseLocalDateTime(r.FormValue("date"), r.FormValue("end_time"))
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}

	requesterID := 0
	if v := r.FormValue("requester_id"); v != "" {
		requesterID, err = strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid requester_id", http.StatusBadRequest)
			return
		}
	}

	document, err := readUpload(r, "document")
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.bookings.Create(r.Context(), caller, entities.CreateBookingInput{
		VehicleID:   vehicleID,
		RequesterID: requesterID,
		Destination: r.FormValue("destination"),
		StartTime:   start,
		EndTime:     end,
		Document:    document,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.bookings.ListMine(caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.bookings.Get(caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Checkout marks the vehicle as returned, completing the request.
func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.bookings.Checkout(caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// MyVehicleStatus reports whether the caller currently holds a vehicle or is
// overdue returning one.
func (h *BookingHandler) MyVehicleStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	status, err := h.bookings.VehicleStatus(caller.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
