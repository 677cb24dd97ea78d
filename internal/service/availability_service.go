package service

import (
	"tamvems/internal/db"
	"tamvems/internal/entities"
	"tamvems/internal/httperr"
	"tamvems/internal/repository"
	"tamvems/internal/utils"

	"go.uber.org/zap"
)

// AvailabilityService answers which active vehicles can satisfy a requested
// window and what is blocking the rest.
type AvailabilityService struct {
	bookings repository.BookingRepository
	vehicles repository.VehicleRepository
	log      *zap.Logger
}

func NewAvailabilityService(bookings repository.BookingRepository, vehicles repository.VehicleRepository, log *zap.Logger) *AvailabilityService {
	return &AvailabilityService{bookings: bookings, vehicles: vehicles, log: log}
}

// Resolve computes per-vehicle availability for the window. A nil window
// skips the overlap filters and reports general fleet status: only the
// unreturned-vehicle rule applies.
//
// An APPROVED request with no checkout pre-empts everything: the vehicle is
// physically out, so it is unavailable regardless of the window and its
// time-based bookings are not listed.
func (s *AvailabilityService) Resolve(window *entities.Window) (*entities.AvailabilityResponse, error) {
	vehicles, err := s.vehicles.List(true)
	if err != nil {
		s.log.Error("availability: list vehicles", zap.Error(err))
		return nil, httperr.Internal()
	}

	unreturned, err := s.bookings.ListApprovedUnreturned()
	if err != nil {
		s.log.Error("availability: list unreturned", zap.Error(err))
		return nil, httperr.Internal()
	}
	unreturnedByVehicle := make(map[int]bool, len(unreturned))
	for _, b := range unreturned {
		unreturnedByVehicle[b.VehicleID] = true
	}

	conflictsByVehicle := make(map[int][]entities.BookingWindow)
	pendingByVehicle := make(map[int]int)
	if window != nil {
		approved, err := s.bookings.ListApprovedOverlapping(window.Start, window.End)
		if err != nil {
			s.log.Error("availability: list approved overlapping", zap.Error(err))
			return nil, httperr.Internal()
		}
		for _, b := range approved {
			conflictsByVehicle[b.VehicleID] = append(conflictsByVehicle[b.VehicleID], entities.BookingWindow{
				StartTime: utils.FormatLocal(b.StartTime),
				EndTime:   utils.FormatLocal(b.EndTime),
			})
		}

		pendingByVehicle, err = s.bookings.CountPendingOverlapping(window.Start, window.End)
		if err != nil {
			s.log.Error("availability: count pending", zap.Error(err))
			return nil, httperr.Internal()
		}
	}

	resp := &entities.AvailabilityResponse{
		Vehicles: make([]entities.VehicleAvailability, 0, len(vehicles)),
	}
	if window != nil {
		resp.RequestedStartTime = &window.Start
		resp.RequestedEndTime = &window.End
	}

	for _, v := range vehicles {
		va := s.classify(v, unreturnedByVehicle[v.ID], conflictsByVehicle[v.ID])
		va.PendingCount = pendingByVehicle[v.ID]
		resp.Vehicles = append(resp.Vehicles, va)
	}
	return resp, nil
}

func (s *AvailabilityService) classify(v db.Vehicle, unreturned bool, conflicts []entities.BookingWindow) entities.VehicleAvailability {
	va := entities.VehicleAvailability{
		VehicleID: v.ID,
		Name:      v.Name,
		Plate:     v.Plate,
		FuelType:  v.FuelType,
		ImageURL:  v.ImageURL,
		Bookings:  []entities.BookingWindow{},
	}

	switch {
	case unreturned:
		va.Available = false
		va.Overlapping = true
	case len(conflicts) > 0:
		va.Available = false
		va.Bookings = conflicts
	default:
		va.Available = true
	}
	return va
}
