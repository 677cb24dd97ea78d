package entities

import "time"

// Window is a requested half-open booking interval [Start, End) in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// BookingWindow is a conflicting interval rendered in local wall-clock time.
type BookingWindow struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// VehicleAvailability describes one vehicle's fitness for a requested window.
// Overlapping is true only for the unreturned-vehicle case, where the
// blocking is physical rather than time-based and Bookings stays empty.
type VehicleAvailability struct {
	VehicleID    int             `json:"vehicle_id"`
	Name         string          `json:"name"`
	Plate        string          `json:"plate"`
	FuelType     string          `json:"fuel_type"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Available    bool            `json:"available"`
	Overlapping  bool            `json:"overlapping"`
	PendingCount int             `json:"pending_count"`
	Bookings     []BookingWindow `json:"bookings"`
}

type AvailabilityResponse struct {
	RequestedStartTime *time.Time            `json:"requested_start_time,omitempty"`
	RequestedEndTime   *time.Time            `json:"requested_end_time,omitempty"`
	Vehicles           []VehicleAvailability `json:"vehicles"`
}
