package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/skyreserve/skyreserve/internal/domain"
	"github.com/skyreserve/skyreserve/internal/kafka"
	"github.com/skyreserve/skyreserve/internal/repository"
)

const (
	minSeatsPerBooking = 1
	maxSeatsPerBooking = 9
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, requesterID int64, requesterAdmin bool, bookingID int64) (*CancelBookingResult, error)
	ListBookings(ctx context.Context, userID int64) ([]domain.BookingDetail, error)
	ListAllBookings(ctx context.Context) ([]domain.BookingDetail, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingService is the only writer of a flight's seat counter: creation
// decrements it, cancellation hands the seats back.
type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	notificationsTopic string
}

type CreateBookingInput struct {
	UserID         int64              `json:"-"`
	FlightID       int64              `json:"flight_id"`
	Seats          int                `json:"seats"`
	PassengerName  string             `json:"passenger_name"`
	PassengerEmail string             `json:"passenger_email"`
	Passengers     []domain.Passenger `json:"passengers"`
}

type CreateBookingResult struct {
	Booking        domain.BookingDetail
	RemainingSeats int
}

// CancelBookingResult carries the flight's restored seat count;
// RemainingSeats is nil when the flight no longer exists.
type CancelBookingResult struct {
	Booking        *domain.Booking
	RemainingSeats *int
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	notificationsTopic string,
) *BookingService {
	return &BookingService{
		bookings:           bookings,
		flights:            flights,
		cache:              cache,
		producer:           producer,
		notificationsTopic: notificationsTopic,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	// Early check against the read so the caller gets a useful count. The
	// read can be stale under concurrent bookings; the conditional decrement
	// inside CreateConfirmed is what actually prevents oversell.
	if flight.AvailableSeats < input.Seats {
		return nil, fmt.Errorf("%w: only %d seats available, %d requested", domain.ErrCapacityExceeded, flight.AvailableSeats, input.Seats)
	}

	passengers := input.Passengers
	if len(passengers) == 0 {
		passengers = []domain.Passenger{{Name: input.PassengerName, Email: input.PassengerEmail}}
	}

	booking := &domain.Booking{
		Reference:       uuid.NewString(),
		UserID:          input.UserID,
		FlightID:        input.FlightID,
		PassengerName:   input.PassengerName,
		PassengerEmail:  input.PassengerEmail,
		Passengers:      passengers,
		Seats:           input.Seats,
		TotalPriceCents: flight.PriceCents * int64(input.Seats),
	}

	remaining, err := s.bookings.CreateConfirmed(ctx, booking)
	if err != nil {
		return nil, err
	}
	flight.AvailableSeats = remaining

	s.invalidateFlights(ctx)
	s.notify(ctx, "booking_confirmed", booking,
		fmt.Sprintf("Your booking %s for flight %s (%s to %s) on %s is confirmed. Seats: %d.",
			booking.Reference, flight.FlightNumber, flight.Origin, flight.Destination, flight.Date, booking.Seats))

	return &CreateBookingResult{
		Booking:        domain.BookingDetail{Booking: *booking, Flight: flight},
		RemainingSeats: remaining,
	}, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, requesterID int64, requesterAdmin bool, bookingID int64) (*CancelBookingResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requesterID && !requesterAdmin {
		return nil, domain.ErrAccessDenied
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	cancelled, err := s.bookings.MarkCancelled(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	result := &CancelBookingResult{Booking: cancelled}

	// Hand the seats back. A vanished flight does not undo the cancellation;
	// the restoration is skipped and the seat count left unreported.
	remaining, err := s.flights.AdjustSeats(ctx, cancelled.FlightID, cancelled.Seats)
	switch {
	case err == nil:
		result.RemainingSeats = &remaining
	case errors.Is(err, domain.ErrFlightNotFound):
		log.Printf("cancel booking %d: flight %d no longer exists, skipping seat restore", bookingID, cancelled.FlightID)
	default:
		log.Printf("cancel booking %d: restore %d seats on flight %d: %v", bookingID, cancelled.Seats, cancelled.FlightID, err)
	}

	s.invalidateFlights(ctx)
	s.notify(ctx, "booking_cancelled", cancelled,
		fmt.Sprintf("Your booking %s has been cancelled. Seats released: %d.", cancelled.Reference, cancelled.Seats))

	return result, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) ListAllBookings(ctx context.Context) ([]domain.BookingDetail, error) {
	return s.bookings.ListAll(ctx)
}

func validateCreateInput(input CreateBookingInput) error {
	if input.FlightID == 0 || strings.TrimSpace(input.PassengerName) == "" || strings.TrimSpace(input.PassengerEmail) == "" {
		return fmt.Errorf("%w: flight, passenger name and passenger email are required", domain.ErrValidation)
	}
	if input.Seats < minSeatsPerBooking || input.Seats > maxSeatsPerBooking {
		return fmt.Errorf("%w: number of seats must be between %d and %d", domain.ErrValidation, minSeatsPerBooking, maxSeatsPerBooking)
	}
	if len(input.Passengers) > 0 {
		if len(input.Passengers) != input.Seats {
			return fmt.Errorf("%w: number of passenger details must match number of seats", domain.ErrValidation)
		}
		for i, p := range input.Passengers {
			if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
				return fmt.Errorf("%w: passenger %d name and email are required", domain.ErrValidation, i+1)
			}
		}
	}
	return nil
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		log.Printf("invalidate flights cache: %v", err)
	}
}

func (s *BookingService) notify(ctx context.Context, eventType string, booking *domain.Booking, body string) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	subject := "SkyReserve - Booking confirmed"
	if eventType == "booking_cancelled" {
		subject = "SkyReserve - Booking cancelled"
	}
	event := kafka.NotificationEvent{
		Type:    eventType,
		To:      booking.PassengerEmail,
		Subject: subject,
		Body:    body,
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
		log.Printf("publish %s event for booking %s: %v", eventType, booking.Reference, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
