package service

import (
	"context"
	"errors"
	"strings"

	"tamvems/internal/db"
	"tamvems/internal/entities"
	"tamvems/internal/httperr"
	"tamvems/internal/repository"

	"go.uber.org/zap"
)

// VehicleInput carries the admin-editable fields of a vehicle.
type VehicleInput struct {
	Name        string
	Plate       string
	FuelType    string
	Year        int
	Description *string
}

// VehicleService administers the fleet. Vehicles are soft-deactivated so
// historical bookings keep their reference.
type VehicleService struct {
	vehicles repository.VehicleRepository
	uploader Uploader
	log      *zap.Logger
}

func NewVehicleService(vehicles repository.VehicleRepository, uploader Uploader, log *zap.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, uploader: uploader, log: log}
}

func validFuelType(fuel string) bool {
	switch fuel {
	case db.FuelGas, db.FuelDiesel, db.FuelElectric:
		return true
	}
	return false
}

// NormalizePlate strips spaces and uppercases so "b 1234 xy" and "B1234XY"
// collide on the unique constraint.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

func (s *VehicleService) validate(in *VehicleInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return httperr.Validation("name", "name is required")
	}
	in.Plate = NormalizePlate(in.Plate)
	if in.Plate == "" {
		return httperr.Validation("plate", "plate is required")
	}
	if !validFuelType(in.FuelType) {
		return httperr.Validation("fuel_type", "fuel type must be GAS, DIESEL or ELECTRIC")
	}
	if in.Year < 1900 {
		return httperr.Validation("year", "invalid year")
	}
	return nil
}

func (s *VehicleService) checkPlate(plate string, excludeID int) error {
	exists, err := s.vehicles.PlateExists(plate, excludeID)
	if err != nil {
		s.log.Error("check plate", zap.Error(err))
		return httperr.Internal()
	}
	if exists {
		return httperr.Conflict(httperr.CodeDuplicatePlate, "a vehicle with this plate already exists")
	}
	return nil
}

func (s *VehicleService) Create(in VehicleInput) (*db.Vehicle, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	if err := s.checkPlate(in.Plate, 0); err != nil {
		return nil, err
	}

	v := &db.Vehicle{
		Name:        strings.TrimSpace(in.Name),
		Plate:       in.Plate,
		FuelType:    in.FuelType,
		Year:        in.Year,
		Description: in.Description,
		IsActive:    true,
	}
	if err := s.vehicles.Create(v); err != nil {
		s.log.Error("create vehicle", zap.Error(err))
		return nil, httperr.Internal()
	}
	return v, nil
}

func (s *VehicleService) Update(id int, in VehicleInput) (*db.Vehicle, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	v, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPlate(in.Plate, id); err != nil {
		return nil, err
	}

	v.Name = strings.TrimSpace(in.Name)
	v.Plate = in.Plate
	v.FuelType = in.FuelType
	v.Year = in.Year
	v.Description = in.Description
	if err := s.vehicles.Update(v); err != nil {
		s.log.Error("update vehicle", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}
	return v, nil
}

// Deactivate soft-removes a vehicle from the bookable fleet.
func (s *VehicleService) Deactivate(id int) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	if err := s.vehicles.SetActive(id, false); err != nil {
		s.log.Error("deactivate vehicle", zap.Int("id", id), zap.Error(err))
		return httperr.Internal()
	}
	return nil
}

// AttachPhoto validates and uploads a vehicle photo, storing the URL.
func (s *VehicleService) AttachPhoto(ctx context.Context, id int, photo *entities.Upload) (*db.Vehicle, error) {
	if photo == nil {
		return nil, httperr.Validation("photo", "photo file is required")
	}
	if err := ValidatePhoto(photo); err != nil {
		return nil, err
	}
	if _, err := s.get(id); err != nil {
		return nil, err
	}

	url, err := s.uploader.UploadPhoto(ctx, photo)
	if err != nil {
		s.log.Error("upload vehicle photo", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}
	if err := s.vehicles.SetImageURL(id, url); err != nil {
		s.log.Error("store vehicle photo url", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}
	return s.get(id)
}

func (s *VehicleService) Get(id int) (*db.Vehicle, error) {
	return s.get(id)
}

func (s *VehicleService) List(onlyActive bool) ([]db.Vehicle, error) {
	vehicles, err := s.vehicles.List(onlyActive)
	if err != nil {
		s.log.Error("list vehicles", zap.Error(err))
		return nil, httperr.Internal()
	}
	return vehicles, nil
}

func (s *VehicleService) get(id int) (*db.Vehicle, error) {
	v, err := s.vehicles.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperr.NotFound("vehicle not found")
		}
		s.log.Error("get vehicle", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}
	return v, nil
}
