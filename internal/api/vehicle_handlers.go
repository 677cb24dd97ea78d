package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tamvems/internal/httperr"
	"tamvems/internal/service"

	"github.com/gorilla/mux"
)

type VehicleHandler struct {
	vehicles *service.VehicleService
}

func NewVehicleHandler(vehicles *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("include_inactive") != "true"
	vehicles, err := h.vehicles.List(onlyActive)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		resp = append(resp, toVehicleResponse(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	v, err := h.vehicles.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(*v))
}

func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	v, err := h.vehicles.Create(vehicleInput(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleResponse(*v))
}

func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	v, err := h.vehicles.Update(id, vehicleInput(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(*v))
}

// DeactivateVehicle soft-removes a vehicle from the bookable fleet; the row
// is kept for booking history.
func (h *VehicleHandler) DeactivateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := h.vehicles.Deactivate(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deactivated"})
}

// UploadPhoto attaches a photo from the multipart field "photo".
func (h *VehicleHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	photo, err := readUpload(r, "photo")
	if err != nil {
		writeError(w, err)
		return
	}
	if photo == nil {
		writeError(w, httperr.Validation("photo", "photo file is required"))
		return
	}

	v, err := h.vehicles.AttachPhoto(r.Context(), id, photo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(*v))
}

func vehicleInput(req VehicleRequest) service.VehicleInput {
	return service.VehicleInput{
		Name:        req.Name,
		Plate:       req.Plate,
		FuelType:    req.FuelType,
		Year:        req.Year,
		Description: req.Description,
	}
}
