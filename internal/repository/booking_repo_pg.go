package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyreserve/skyreserve/internal/domain"
)

type BookingRepository interface {
	// CreateConfirmed persists a confirmed booking and decrements the
	// flight's seat counter in the same transaction. Returns the remaining
	// available seats on success.
	CreateConfirmed(ctx context.Context, booking *domain.Booking) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MarkCancelled(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetail, error)
	ListAll(ctx context.Context) ([]domain.BookingDetail, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, user_id, flight_id, passenger_name, passenger_email, passengers, seats, total_price_cents, status, created_at, updated_at`

func (r *PGBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) (int, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// The decrement is conditional on sufficient capacity in the same
	// statement, so two concurrent bookings cannot both pass a stale
	// availability check and oversell the flight.
	var remaining int
	err = tx.QueryRow(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now()
		WHERE id = $1 AND available_seats >= $2
		RETURNING available_seats`, booking.FlightID, booking.Seats).Scan(&remaining)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
		var available int
		if err := tx.QueryRow(ctx, `SELECT available_seats FROM flights WHERE id=$1`, booking.FlightID).Scan(&available); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Flight vanished between the service's read and this write.
				// Rolling back the transaction undoes the booking insert path
				// entirely, the compensating action for this failure.
				return 0, domain.ErrInventoryUpdateFailed
			}
			return 0, err
		}
		return 0, fmt.Errorf("%w: only %d seats available, %d requested", domain.ErrCapacityExceeded, available, booking.Seats)
	}

	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return 0, err
	}

	booking.Status = domain.BookingStatusConfirmed
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (reference, user_id, flight_id, passenger_name, passenger_email, passengers, seats, total_price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.UserID, booking.FlightID, booking.PassengerName, booking.PassengerEmail, passengers, booking.Seats, booking.TotalPriceCents, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return remaining, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// MarkCancelled flips a confirmed booking to cancelled. The status condition
// makes the transition exactly-once even under concurrent cancel requests.
func (r *PGBookingRepository) MarkCancelled(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3
		RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, id, domain.BookingStatusConfirmed)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlreadyCancelled
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	rows, err := r.db.Query(ctx, `SELECT `+detailColumns+`
		FROM bookings b
		LEFT JOIN flights f ON f.id = b.flight_id
		WHERE b.user_id=$1
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDetails(rows, false)
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.BookingDetail, error) {
	rows, err := r.db.Query(ctx, `SELECT `+detailColumns+`, u.id, u.name, u.email
		FROM bookings b
		LEFT JOIN flights f ON f.id = b.flight_id
		JOIN users u ON u.id = b.user_id
		ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDetails(rows, true)
}

const detailColumns = `b.id, b.reference, b.user_id, b.flight_id, b.passenger_name, b.passenger_email, b.passengers, b.seats, b.total_price_cents, b.status, b.created_at, b.updated_at,
	f.id, f.flight_number, f.airline, f.origin, f.destination, f.date, f.departure_time, f.arrival_time, f.price_cents, f.logo_url, f.available_seats`

func collectDetails(rows pgx.Rows, withUser bool) ([]domain.BookingDetail, error) {
	details := make([]domain.BookingDetail, 0)
	for rows.Next() {
		var d domain.BookingDetail
		var passengers []byte
		var fID, fPrice *int64
		var fNumber, fAirline, fOrigin, fDest, fDate, fDep, fArr, fLogo *string
		var fAvailable *int

		dest := []interface{}{
			&d.ID, &d.Reference, &d.UserID, &d.FlightID, &d.PassengerName, &d.PassengerEmail, &passengers, &d.Seats, &d.TotalPriceCents, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&fID, &fNumber, &fAirline, &fOrigin, &fDest, &fDate, &fDep, &fArr, &fPrice, &fLogo, &fAvailable,
		}
		var user domain.UserSummary
		if withUser {
			dest = append(dest, &user.ID, &user.Name, &user.Email)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(passengers, &d.Passengers); err != nil {
			return nil, err
		}
		if fID != nil {
			d.Flight = &domain.Flight{
				ID:             *fID,
				FlightNumber:   *fNumber,
				Airline:        *fAirline,
				Origin:         *fOrigin,
				Destination:    *fDest,
				Date:           *fDate,
				DepartureTime:  *fDep,
				ArrivalTime:    *fArr,
				PriceCents:     *fPrice,
				LogoURL:        *fLogo,
				AvailableSeats: *fAvailable,
			}
		}
		if withUser {
			d.User = &user
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var passengers []byte
	if err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.FlightID, &b.PassengerName, &b.PassengerEmail, &passengers, &b.Seats, &b.TotalPriceCents, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
