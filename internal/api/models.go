package api

import (
	"time"

	"tamvems/internal/db"
)

const maxMultipartMemory = 8 << 20

// Auth
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Booking administration
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Vehicles
type VehicleRequest struct {
	Name        string  `json:"name"`
	Plate       string  `json:"plate"`
	FuelType    string  `json:"fuel_type"`
	Year        int     `json:"year"`
	Description *string `json:"description,omitempty"`
}

type VehicleResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Plate       string    `json:"plate"`
	FuelType    string    `json:"fuel_type"`
	Year        int       `json:"year"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toVehicleResponse(v db.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          v.ID,
		Name:        v.Name,
		Plate:       v.Plate,
		FuelType:    v.FuelType,
		Year:        v.Year,
		Description: v.Description,
		ImageURL:    v.ImageURL,
		IsActive:    v.IsActive,
		CreatedAt:   v.CreatedAt,
	}
}

// Users
type UserRequest struct {
	Email             string  `json:"email"`
	Password          string  `json:"password,omitempty"`
	Name              string  `json:"name"`
	EmployeeNo        string  `json:"employee_no"`
	Phone             *string `json:"phone,omitempty"`
	Role              string  `json:"role"`
	Division          string  `json:"division"`
	IsActive          bool    `json:"is_active"`
	CanChangePassword bool    `json:"can_change_password"`
}

type UserResponse struct {
	ID                int       `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	EmployeeNo        string    `json:"employee_no"`
	Phone             *string   `json:"phone,omitempty"`
	Role              string    `json:"role"`
	Division          string    `json:"division"`
	IsActive          bool      `json:"is_active"`
	CanChangePassword bool      `json:"can_change_password"`
	CreatedAt         time.Time `json:"created_at"`
}

func toUserResponse(u db.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		EmployeeNo:        u.EmployeeNo,
		Phone:             u.Phone,
		Role:              u.Role,
		Division:          u.Division,
		IsActive:          u.IsActive,
		CanChangePassword: u.CanChangePassword,
		CreatedAt:         u.CreatedAt,
	}
}
