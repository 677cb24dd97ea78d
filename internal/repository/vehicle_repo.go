package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"tamvems/internal/db"
)

// VehicleRepository is the persistence contract for the fleet. Vehicles are
// soft-deactivated, never deleted.
type VehicleRepository interface {
	Create(v *db.Vehicle) error
	GetByID(id int) (*db.Vehicle, error)
	Update(v *db.Vehicle) error
	SetActive(id int, active bool) error
	SetImageURL(id int, url string) error
	List(onlyActive bool) ([]db.Vehicle, error)
	PlateExists(plate string, excludeID int) (bool, error)
}

type vehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) VehicleRepository {
	return &vehicleRepository{DB: database}
}

const vehicleColumns = `id, name, plate, fuel_type, year, description, image_url, is_active, created_at, updated_at`

func scanVehicle(row interface{ Scan(...interface{}) error }) (*db.Vehicle, error) {
	var v db.Vehicle
	err := row.Scan(&v.ID, &v.Name, &v.Plate, &v.FuelType, &v.Year,
		&v.Description, &v.ImageURL, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepository) Create(v *db.Vehicle) error {
	query := `
		INSERT INTO vehicles (name, plate, fuel_type, year, description, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query, v.Name, v.Plate, v.FuelType, v.Year,
		v.Description, v.ImageURL, v.IsActive).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *vehicleRepository) GetByID(id int) (*db.Vehicle, error) {
	v, err := scanVehicle(r.DB.QueryRow(
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle %d: %w", id, err)
	}
	return v, nil
}

func (r *vehicleRepository) Update(v *db.Vehicle) error {
	result, err := r.DB.Exec(`
		UPDATE vehicles
		SET name = $1, plate = $2, fuel_type = $3, year = $4, description = $5, updated_at = NOW()
		WHERE id = $6`,
		v.Name, v.Plate, v.FuelType, v.Year, v.Description, v.ID)
	if err != nil {
		return fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	return requireOneRow(result, ErrNotFound)
}

func (r *vehicleRepository) SetActive(id int, active bool) error {
	result, err := r.DB.Exec(
		`UPDATE vehicles SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set vehicle %d active=%t: %w", id, active, err)
	}
	return requireOneRow(result, ErrNotFound)
}

func (r *vehicleRepository) SetImageURL(id int, url string) error {
	result, err := r.DB.Exec(
		`UPDATE vehicles SET image_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("set vehicle %d image: %w", id, err)
	}
	return requireOneRow(result, ErrNotFound)
}

func (r *vehicleRepository) List(onlyActive bool) ([]db.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) PlateExists(plate string, excludeID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM vehicles WHERE plate = $1 AND id <> $2)`,
		plate, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check plate: %w", err)
	}
	return exists, nil
}
