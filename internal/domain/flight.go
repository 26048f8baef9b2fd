package domain

import "time"

const DefaultSeatCapacity = 180

type Flight struct {
	ID             int64
	FlightNumber   string
	Airline        string
	Origin         string
	Destination    string
	Date           string // YYYY-MM-DD
	DepartureTime  string // HH:MM
	ArrivalTime    string // HH:MM
	PriceCents     int64
	LogoURL        string
	TotalSeats     int
	AvailableSeats int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FlightFilter narrows a flight search. Origin, Destination and Airline are
// case-insensitive substring matches; Date is an exact match.
type FlightFilter struct {
	Origin      string
	Destination string
	Date        string
	Airline     string
}

func (f FlightFilter) Empty() bool {
	return f.Origin == "" && f.Destination == "" && f.Date == "" && f.Airline == ""
}
