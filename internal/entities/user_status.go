package entities

// Vehicle-usage classification for a single user. At most one of the three
// states is surfaced.
const (
	UsageNone    = "NONE"
	UsageInUse   = "IN_USE"
	UsageOverdue = "OVERDUE"
)

type UserVehicleStatus struct {
	State          string `json:"state"`
	BookingCode    string `json:"booking_code,omitempty"`
	VehicleName    string `json:"vehicle_name,omitempty"`
	MinutesOverdue int    `json:"minutes_overdue,omitempty"`
}

// BookingEmailData feeds the approval email template.
type BookingEmailData struct {
	UserName           string
	BookingCode        string
	VehicleName        string
	VehiclePlate       string
	Destination        string
	StartTimeFormatted string
	EndTimeFormatted   string
	CurrentYear        int
}
