package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyreserve/skyreserve/internal/domain"
)

type FlightRepository interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
	AdjustSeats(ctx context.Context, id int64, delta int) (int, error)
	Count(ctx context.Context) (int, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, origin, destination, date, departure_time, arrival_time, price_cents, logo_url, total_seats, available_seats, created_at, updated_at`

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Origin != "" {
		add(`origin ILIKE '%%' || $%d || '%%'`, filter.Origin)
	}
	if filter.Destination != "" {
		add(`destination ILIKE '%%' || $%d || '%%'`, filter.Destination)
	}
	if filter.Date != "" {
		add(`date = $%d`, filter.Date)
	}
	if filter.Airline != "" {
		add(`airline ILIKE '%%' || $%d || '%%'`, filter.Airline)
	}

	query := `SELECT ` + flightColumns + ` FROM flights`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY date, departure_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, airline, origin, destination, date, departure_time, arrival_time, price_cents, logo_url, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		flight.FlightNumber, flight.Airline, flight.Origin, flight.Destination, flight.Date, flight.DepartureTime, flight.ArrivalTime, flight.PriceCents, flight.LogoURL, flight.TotalSeats, flight.AvailableSeats).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrFlightNumberExists
		}
		return err
	}
	return nil
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	row := r.db.QueryRow(ctx, `UPDATE flights SET flight_number=$1, airline=$2, origin=$3, destination=$4, date=$5, departure_time=$6, arrival_time=$7, price_cents=$8, logo_url=$9, total_seats=$10, available_seats=$11, updated_at=now()
		WHERE id=$12 RETURNING updated_at`,
		flight.FlightNumber, flight.Airline, flight.Origin, flight.Destination, flight.Date, flight.DepartureTime, flight.ArrivalTime, flight.PriceCents, flight.LogoURL, flight.TotalSeats, flight.AvailableSeats, flight.ID)
	if err := row.Scan(&flight.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFlightNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrFlightNumberExists
		}
		return err
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// AdjustSeats applies an atomic increment to available_seats and returns the
// new value. Used by cancellation to hand seats back; the booking-side
// decrement lives in the booking repository transaction.
func (r *PGFlightRepository) AdjustSeats(ctx context.Context, id int64, delta int) (int, error) {
	row := r.db.QueryRow(ctx, `UPDATE flights SET available_seats = available_seats + $2, updated_at = now() WHERE id=$1 RETURNING available_seats`, id, delta)
	var available int
	if err := row.Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrFlightNotFound
		}
		return 0, err
	}
	return available, nil
}

func (r *PGFlightRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM flights`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.Origin, &f.Destination, &f.Date, &f.DepartureTime, &f.ArrivalTime, &f.PriceCents, &f.LogoURL, &f.TotalSeats, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt)
}

var _ FlightRepository = (*PGFlightRepository)(nil)
