package seed

import (
	"context"
	"errors"
	"log"

	"github.com/skyreserve/skyreserve/internal/domain"
	"github.com/skyreserve/skyreserve/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Flights loads the starter catalog when the flights table is empty.
func Flights(ctx context.Context, repo repository.FlightRepository) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Printf("seeding %d flights", len(catalog))
	for i := range catalog {
		flight := catalog[i]
		flight.TotalSeats = domain.DefaultSeatCapacity
		flight.AvailableSeats = domain.DefaultSeatCapacity
		if err := repo.Create(ctx, &flight); err != nil {
			return err
		}
	}
	return nil
}

// AdminUser creates the default administrator account once. The account is
// created already verified so it can log in without a mailed code.
func AdminUser(ctx context.Context, users repository.UserRepository, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:          "admin",
		Email:         email,
		PasswordHash:  string(hash),
		IsAdmin:       true,
		EmailVerified: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("default admin user created: %s", email)
	return nil
}

var catalog = []domain.Flight{
	{FlightNumber: "6E-248", Airline: "IndiGo", Origin: "Chennai", Destination: "Delhi", Date: "2025-01-15", DepartureTime: "08:45", ArrivalTime: "11:15", PriceCents: 540000, LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/9/9f/IndiGo_logo.svg/200px-IndiGo_logo.svg.png"},
	{FlightNumber: "AI-101", Airline: "Air India", Origin: "Mumbai", Destination: "Bangalore", Date: "2025-01-15", DepartureTime: "14:30", ArrivalTime: "16:45", PriceCents: 620000, LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/4/4e/Air_India_Logo.svg/200px-Air_India_Logo.svg.png"},
	{FlightNumber: "UK-456", Airline: "Vistara", Origin: "Delhi", Destination: "Mumbai", Date: "2025-01-16", DepartureTime: "09:15", ArrivalTime: "11:30", PriceCents: 680000, LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/8/8a/Vistara_logo.svg/200px-Vistara_logo.svg.png"},
	{FlightNumber: "EK-501", Airline: "Emirates", Origin: "Mumbai", Destination: "Dubai", Date: "2025-01-16", DepartureTime: "21:50", ArrivalTime: "23:45", PriceCents: 1850000, LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d0/Emirates_logo.svg/200px-Emirates_logo.svg.png"},
	{FlightNumber: "SG-712", Airline: "SpiceJet", Origin: "Kolkata", Destination: "Chennai", Date: "2025-01-17", DepartureTime: "06:20", ArrivalTime: "08:50", PriceCents: 480000, LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/7/79/SpiceJet_logo.svg/200px-SpiceJet_logo.svg.png"},
	{FlightNumber: "6E-771", Airline: "IndiGo", Origin: "Delhi", Destination: "Goa", Date: "2025-01-17", DepartureTime: "11:05", ArrivalTime: "13:35", PriceCents: 720000, LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/9/9f/IndiGo_logo.svg/200px-IndiGo_logo.svg.png"},
	{FlightNumber: "AI-302", Airline: "Air India", Origin: "Bangalore", Destination: "Delhi", Date: "2025-01-18", DepartureTime: "17:40", ArrivalTime: "20:25", PriceCents: 650000, LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/4/4e/Air_India_Logo.svg/200px-Air_India_Logo.svg.png"},
	{FlightNumber: "QR-573", Airline: "Qatar Airways", Origin: "Delhi", Destination: "Doha", Date: "2025-01-18", DepartureTime: "03:55", ArrivalTime: "06:10", PriceCents: 2100000, LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/7/7d/Qatar_Airways_Logo.svg/200px-Qatar_Airways_Logo.svg.png"},
}
