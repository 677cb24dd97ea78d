package db

import "time"

// Fuel types accepted for vehicles.
const (
	FuelGas      = "GAS"
	FuelDiesel   = "DIESEL"
	FuelElectric = "ELECTRIC"
)

// Roles carried in the JWT and the users table.
const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

type Vehicle struct {
	ID          int
	Name        string
	Plate       string
	FuelType    string
	Year        int
	Description *string
	ImageURL    *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type User struct {
	ID                int
	Email             string
	PasswordHash      string
	Name              string
	EmployeeNo        string
	Phone             *string
	Role              string
	Division          string
	IsActive          bool
	CanChangePassword bool
	DeletedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type BookingRequest struct {
	ID              int
	Code            string
	VehicleID       int
	RequesterID     int
	CreatedByID     int
	Destination     string
	StartTime       time.Time
	EndTime         time.Time
	Status          RequestStatus
	RejectionReason *string
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	CheckOutAt      *time.Time
	DocumentURL     *string
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined for display, not columns of booking_requests.
	VehicleName       string
	VehiclePlate      string
	RequesterName     string
	RequesterEmail    string
	RequesterPhone    *string
	RequesterDivision string
}
