package flights

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/skyreserve/skyreserve/internal/domain"
	"github.com/skyreserve/skyreserve/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

// Search serves the unfiltered catalog from cache when possible; filtered
// queries always hit the store.
func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	if filter.Empty() && s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if filter.Empty() && s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, flight *domain.Flight) error {
	if err := validateFlight(flight); err != nil {
		return err
	}
	if flight.TotalSeats == 0 {
		flight.TotalSeats = domain.DefaultSeatCapacity
	}
	if flight.AvailableSeats == 0 {
		flight.AvailableSeats = flight.TotalSeats
	}
	if flight.AvailableSeats > flight.TotalSeats {
		return fmt.Errorf("%w: available seats cannot exceed total seats", domain.ErrValidation)
	}

	if err := s.repo.Create(ctx, flight); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) Update(ctx context.Context, flight *domain.Flight) error {
	if err := validateFlight(flight); err != nil {
		return err
	}
	if flight.AvailableSeats > flight.TotalSeats {
		return fmt.Errorf("%w: available seats cannot exceed total seats", domain.ErrValidation)
	}

	if err := s.repo.Update(ctx, flight); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		log.Printf("invalidate flights cache: %v", err)
	}
}

func validateFlight(f *domain.Flight) error {
	required := []struct {
		name  string
		value string
	}{
		{"flight number", f.FlightNumber},
		{"airline", f.Airline},
		{"origin", f.Origin},
		{"destination", f.Destination},
		{"date", f.Date},
		{"departure time", f.DepartureTime},
		{"arrival time", f.ArrivalTime},
	}
	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if f.PriceCents < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if f.TotalSeats < 0 || f.AvailableSeats < 0 {
		return fmt.Errorf("%w: seat counts cannot be negative", domain.ErrValidation)
	}
	return nil
}

var _ FlightUseCase = (*FlightService)(nil)
