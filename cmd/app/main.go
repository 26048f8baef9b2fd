package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyreserve/skyreserve/api"
	"github.com/skyreserve/skyreserve/config"
	"github.com/skyreserve/skyreserve/internal/bootstrap"
	"github.com/skyreserve/skyreserve/internal/cache"
	"github.com/skyreserve/skyreserve/internal/email"
	"github.com/skyreserve/skyreserve/internal/kafka"
	"github.com/skyreserve/skyreserve/internal/repository"
	"github.com/skyreserve/skyreserve/internal/seed"
	"github.com/skyreserve/skyreserve/internal/service/auth"
	"github.com/skyreserve/skyreserve/internal/service/booking"
	"github.com/skyreserve/skyreserve/internal/service/flights"
	"github.com/skyreserve/skyreserve/internal/token"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(cfg); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	if err := seed.Flights(ctx, flightRepo); err != nil {
		log.Fatalf("seed flights: %v", err)
	}
	if err := seed.AdminUser(ctx, userRepo, cfg.Auth.SeedAdminEmail, cfg.Auth.SeedAdminPassword); err != nil {
		log.Fatalf("seed admin user: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tokens := token.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	mailQueue := email.NewQueue(producer, cfg.Kafka.NotificationsTopic)

	authService := auth.NewAuthService(userRepo, mailQueue, tokens, time.Duration(cfg.Auth.CodeTTLMinutes)*time.Minute)
	flightService := flights.NewFlightService(flightRepo, redisCache)
	bookingService := booking.NewBookingService(bookingRepo, flightRepo, redisCache, producer, cfg.Kafka.NotificationsTopic)

	middleware := api.NewAuthMiddleware(tokens, userRepo)
	router := api.NewRouter(api.RouterConfig{
		Auth:       api.NewAuthHandler(authService),
		Flights:    api.NewFlightHandler(flightService),
		Bookings:   api.NewBookingHandler(bookingService),
		Middleware: middleware,
		SwaggerDir: cfg.HTTP.SwaggerDir,
	})

	log.Printf("listening on %s", cfg.HTTP.Address)
	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runMigrations(cfg *config.Config) error {
	if cfg.Database.MigrationsDir == "" {
		return nil
	}
	m, err := migrate.New("file://"+cfg.Database.MigrationsDir, cfg.Database.MigrateURL())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
