package booking

import (
	"context"
	"testing"

	"github.com/skyreserve/skyreserve/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) (int, error) {
	args := m.Called(ctx, booking)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkCancelled(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BookingDetail), args.Error(1)
}

func (m *MockBookingRepository) ListAll(ctx context.Context) ([]domain.BookingDetail, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BookingDetail), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightRepository) AdjustSeats(ctx context.Context, id int64, delta int) (int, error) {
	args := m.Called(ctx, id, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockFlightRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newTestService(bookings *MockBookingRepository, flights *MockFlightRepository, cache *MockCache, producer *MockProducer) *BookingService {
	return NewBookingService(bookings, flights, cache, producer, "notifications")
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockFlights, mockCache, mockProducer)

	ctx := context.Background()
	flight := &domain.Flight{ID: 4, FlightNumber: "6E-248", Origin: "Chennai", Destination: "Delhi", Date: "2025-01-15", PriceCents: 540000, AvailableSeats: 10}

	mockFlights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		// CreateConfirmed marks the booking confirmed as a side effect; see
		// booking_repo_pg.go and the fake in seat_conservation_test.go.
		args.Get(1).(*domain.Booking).Status = domain.BookingStatusConfirmed
	}).Return(8, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.CreateBooking(ctx, CreateBookingInput{
		UserID:         1,
		FlightID:       4,
		Seats:          2,
		PassengerName:  "Alice",
		PassengerEmail: "alice@example.com",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.BookingStatusConfirmed, result.Booking.Status)
	assert.Equal(t, int64(1), result.Booking.UserID)
	assert.Equal(t, 2, result.Booking.Seats)
	assert.NotEmpty(t, result.Booking.Reference)
	assert.Equal(t, int64(1080000), result.Booking.TotalPriceCents)
	assert.Equal(t, 8, result.RemainingSeats)
	assert.Equal(t, 8, result.Booking.Flight.AvailableSeats)

	// No passenger list supplied: defaulted from the primary passenger.
	require.Len(t, result.Booking.Passengers, 1)
	assert.Equal(t, "Alice", result.Booking.Passengers[0].Name)

	mockBookings.AssertExpectations(t)
	mockFlights.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, &MockFlightRepository{}, &MockCache{}, &MockProducer{})
	ctx := context.Background()

	valid := CreateBookingInput{UserID: 1, FlightID: 4, Seats: 2, PassengerName: "Alice", PassengerEmail: "alice@example.com"}

	testCases := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{name: "zero seats", mutate: func(in *CreateBookingInput) { in.Seats = 0 }},
		{name: "negative seats", mutate: func(in *CreateBookingInput) { in.Seats = -3 }},
		{name: "ten seats", mutate: func(in *CreateBookingInput) { in.Seats = 10 }},
		{name: "missing flight", mutate: func(in *CreateBookingInput) { in.FlightID = 0 }},
		{name: "missing passenger name", mutate: func(in *CreateBookingInput) { in.PassengerName = " " }},
		{name: "missing passenger email", mutate: func(in *CreateBookingInput) { in.PassengerEmail = "" }},
		{name: "passenger count mismatch", mutate: func(in *CreateBookingInput) {
			in.Passengers = []domain.Passenger{{Name: "Alice", Email: "alice@example.com"}}
			in.Seats = 2
		}},
		{name: "passenger missing email", mutate: func(in *CreateBookingInput) {
			in.Seats = 1
			in.Passengers = []domain.Passenger{{Name: "Alice"}}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			result, err := service.CreateBooking(ctx, input)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Nil(t, result)
		})
	}
}

func TestBookingService_CreateBooking_FlightNotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	service := newTestService(mockBookings, mockFlights, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	mockFlights.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrFlightNotFound).Once()

	result, err := service.CreateBooking(ctx, CreateBookingInput{UserID: 1, FlightID: 99, Seats: 1, PassengerName: "Alice", PassengerEmail: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	assert.Nil(t, result)
	mockBookings.AssertNotCalled(t, "CreateConfirmed")
}

func TestBookingService_CreateBooking_CapacityExceeded(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	service := newTestService(mockBookings, mockFlights, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	flight := &domain.Flight{ID: 4, AvailableSeats: 2, PriceCents: 100}
	mockFlights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()

	result, err := service.CreateBooking(ctx, CreateBookingInput{UserID: 1, FlightID: 4, Seats: 3, PassengerName: "Alice", PassengerEmail: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "only 2 seats available")
	assert.Nil(t, result)
	mockBookings.AssertNotCalled(t, "CreateConfirmed")
}

// The repository-level decrement can still fail under a race; its error
// passes through unchanged.
func TestBookingService_CreateBooking_RepositoryCapacityRace(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	service := newTestService(mockBookings, mockFlights, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	flight := &domain.Flight{ID: 4, AvailableSeats: 5, PriceCents: 100}
	mockFlights.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
	mockBookings.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).Return(0, domain.ErrCapacityExceeded).Once()

	result, err := service.CreateBooking(ctx, CreateBookingInput{UserID: 1, FlightID: 4, Seats: 2, PassengerName: "Alice", PassengerEmail: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Nil(t, result)
}

func TestBookingService_CancelBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockFlights, mockCache, mockProducer)

	ctx := context.Background()
	booking := &domain.Booking{ID: 7, Reference: "ref-7", UserID: 1, FlightID: 4, Seats: 2, PassengerEmail: "alice@example.com", Status: domain.BookingStatusConfirmed}
	cancelled := &domain.Booking{ID: 7, Reference: "ref-7", UserID: 1, FlightID: 4, Seats: 2, PassengerEmail: "alice@example.com", Status: domain.BookingStatusCancelled}

	mockBookings.On("GetByID", ctx, int64(7)).Return(booking, nil).Once()
	mockBookings.On("MarkCancelled", ctx, int64(7)).Return(cancelled, nil).Once()
	mockFlights.On("AdjustSeats", ctx, int64(4), 2).Return(10, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", "ref-7", mock.Anything).Return(nil).Once()

	result, err := service.CancelBooking(ctx, 1, false, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, result.Booking.Status)
	require.NotNil(t, result.RemainingSeats)
	assert.Equal(t, 10, *result.RemainingSeats)

	mockBookings.AssertExpectations(t)
	mockFlights.AssertExpectations(t)
}

func TestBookingService_CancelBooking_AdminCanCancelAnyBooking(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockFlights, mockCache, mockProducer)

	ctx := context.Background()
	booking := &domain.Booking{ID: 7, Reference: "ref-7", UserID: 1, FlightID: 4, Seats: 1, Status: domain.BookingStatusConfirmed}
	cancelled := &domain.Booking{ID: 7, Reference: "ref-7", UserID: 1, FlightID: 4, Seats: 1, Status: domain.BookingStatusCancelled}

	mockBookings.On("GetByID", ctx, int64(7)).Return(booking, nil).Once()
	mockBookings.On("MarkCancelled", ctx, int64(7)).Return(cancelled, nil).Once()
	mockFlights.On("AdjustSeats", ctx, int64(4), 1).Return(5, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", "ref-7", mock.Anything).Return(nil).Once()

	_, err := service.CancelBooking(ctx, 99, true, 7)
	assert.NoError(t, err)
}

func TestBookingService_CancelBooking_AccessDenied(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	service := newTestService(mockBookings, mockFlights, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	booking := &domain.Booking{ID: 7, UserID: 1, FlightID: 4, Seats: 2, Status: domain.BookingStatusConfirmed}
	mockBookings.On("GetByID", ctx, int64(7)).Return(booking, nil).Once()

	result, err := service.CancelBooking(ctx, 2, false, 7)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Nil(t, result)
	mockBookings.AssertNotCalled(t, "MarkCancelled")
	mockFlights.AssertNotCalled(t, "AdjustSeats")
}

func TestBookingService_CancelBooking_AlreadyCancelled(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	service := newTestService(mockBookings, mockFlights, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	booking := &domain.Booking{ID: 7, UserID: 1, FlightID: 4, Seats: 2, Status: domain.BookingStatusCancelled}
	mockBookings.On("GetByID", ctx, int64(7)).Return(booking, nil).Once()

	result, err := service.CancelBooking(ctx, 1, false, 7)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Nil(t, result)
	mockFlights.AssertNotCalled(t, "AdjustSeats")
}

func TestBookingService_CancelBooking_NotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockFlightRepository{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	mockBookings.On("GetByID", ctx, int64(404)).Return(nil, domain.ErrBookingNotFound).Once()

	_, err := service.CancelBooking(ctx, 1, false, 404)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

// Cancellation still succeeds when the flight has been deleted; the seat
// restore is skipped and no remaining count is reported.
func TestBookingService_CancelBooking_FlightGone(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockFlights := &MockFlightRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockFlights, mockCache, mockProducer)

	ctx := context.Background()
	booking := &domain.Booking{ID: 7, Reference: "ref-7", UserID: 1, FlightID: 4, Seats: 2, Status: domain.BookingStatusConfirmed}
	cancelled := &domain.Booking{ID: 7, Reference: "ref-7", UserID: 1, FlightID: 4, Seats: 2, Status: domain.BookingStatusCancelled}

	mockBookings.On("GetByID", ctx, int64(7)).Return(booking, nil).Once()
	mockBookings.On("MarkCancelled", ctx, int64(7)).Return(cancelled, nil).Once()
	mockFlights.On("AdjustSeats", ctx, int64(4), 2).Return(0, domain.ErrFlightNotFound).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", "ref-7", mock.Anything).Return(nil).Once()

	result, err := service.CancelBooking(ctx, 1, false, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, result.Booking.Status)
	assert.Nil(t, result.RemainingSeats)
}

func TestBookingService_ListBookings(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockFlightRepository{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	details := []domain.BookingDetail{{Booking: domain.Booking{ID: 1, UserID: 5}}}
	mockBookings.On("ListByUser", ctx, int64(5)).Return(details, nil).Once()

	got, err := service.ListBookings(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, details, got)
}
