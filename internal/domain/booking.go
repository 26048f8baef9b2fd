package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Passenger struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Booking struct {
	ID              int64
	Reference       string
	UserID          int64
	FlightID        int64
	PassengerName   string
	PassengerEmail  string
	Passengers      []Passenger
	Seats           int
	TotalPriceCents int64
	Status          BookingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingDetail is a booking with flight (and, for admin listings, user)
// fields denormalized for display. Flight is nil when the referenced flight
// no longer exists.
type BookingDetail struct {
	Booking
	Flight *Flight
	User   *UserSummary
}
