package entities

import (
	"time"

	"tamvems/internal/db"
	"tamvems/internal/utils"
)

// CreateBookingInput is a validated, timezone-normalized creation request.
// Times are UTC; RequesterID may differ from the submitting caller when an
// admin files a request on someone's behalf.
type CreateBookingInput struct {
	VehicleID   int
	RequesterID int
	Destination string
	StartTime   time.Time
	EndTime     time.Time
	Document    *Upload
}

// BookingResponse is the JSON shape of a booking request. Status reflects
// the derived display status, not necessarily the stored one.
type BookingResponse struct {
	ID              int              `json:"id"`
	Code            string           `json:"code"`
	VehicleID       int              `json:"vehicle_id"`
	VehicleName     string           `json:"vehicle_name"`
	VehiclePlate    string           `json:"vehicle_plate"`
	RequesterID     int              `json:"requester_id"`
	RequesterName   string           `json:"requester_name"`
	Destination     string           `json:"destination"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         time.Time        `json:"end_time"`
	StartTimeLocal  string           `json:"start_time_local"`
	EndTimeLocal    string           `json:"end_time_local"`
	Status          db.RequestStatus `json:"status"`
	RejectionReason *string          `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	RejectedAt      *time.Time       `json:"rejected_at,omitempty"`
	CheckOutAt      *time.Time       `json:"check_out_at,omitempty"`
	DocumentURL     *string          `json:"document_url,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ToBookingResponse flattens a row into the API shape, deriving the display
// status at the given moment.
func ToBookingResponse(b db.BookingRequest, now time.Time) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		Code:            b.Code,
		VehicleID:       b.VehicleID,
		VehicleName:     b.VehicleName,
		VehiclePlate:    b.VehiclePlate,
		RequesterID:     b.RequesterID,
		RequesterName:   b.RequesterName,
		Destination:     b.Destination,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		StartTimeLocal:  utils.FormatLocal(b.StartTime),
		EndTimeLocal:    utils.FormatLocal(b.EndTime),
		Status:          b.DisplayStatus(now),
		RejectionReason: b.RejectionReason,
		ApprovedAt:      b.ApprovedAt,
		RejectedAt:      b.RejectedAt,
		CheckOutAt:      b.CheckOutAt,
		DocumentURL:     b.DocumentURL,
		CreatedAt:       b.CreatedAt,
	}
}

// BookingsList wraps a listing with its count.
type BookingsList struct {
	Total    int               `json:"total"`
	Bookings []BookingResponse `json:"bookings"`
}
