package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carrental/internal/api"
	"carrental/internal/catalog"
	"carrental/internal/config"
	"carrental/internal/db"
	"carrental/internal/logger"
	"carrental/internal/metrics"
	"carrental/internal/pricing"
	"carrental/internal/repository"
	"carrental/internal/reservation"
	"carrental/internal/service"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

const defaultAdminPassword = "admin123"

func run(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	mode, err := pricing.ParseMode(cfg.DurationMode)
	if err != nil {
		return err
	}
	calc := pricing.NewCalculator(mode, cfg.Location())

	seed, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}

	var conn *sql.DB
	if cfg.VehicleStore == config.BackendPostgres || cfg.AdminStore == config.BackendPostgres {
		conn, err = openPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()
	}

	vehicles, err := buildVehicleStore(ctx, cfg, conn, seed)
	if err != nil {
		return err
	}
	sessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	admins, err := buildAdminStore(ctx, cfg, conn, log)
	if err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	controller := reservation.NewController(calc, reservation.Timing{
		ResetDelay:       cfg.ReservationResetDelay,
		InlineResetDelay: cfg.InlineResetDelay,
		NoticeDelay:      cfg.TermsNoticeDelay,
	})
	reservations := service.NewReservationService(sessions, vehicles, controller, calc, m, log.With(logger.String("service", "reservation")))
	adminAuth := service.NewAdminAuthService(service.NewBcryptVerifier(admins), cfg.JWTSecret, cfg.JWTTTL, m, log.With(logger.String("service", "admin_auth")))
	adminFleet := service.NewAdminVehicleService(vehicles, reservations, m, log.With(logger.String("service", "admin_vehicle")))

	jobs := service.NewJobService(sessions, cfg.SessionTTL, m, log.With(logger.String("service", "job")))
	scheduler := cron.New()
	if _, err := jobs.Schedule(scheduler, cfg.SweepSchedule); err != nil {
		return fmt.Errorf("invalid SWEEP_SCHEDULE %q: %w", cfg.SweepSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := api.NewRouter(api.RouterConfig{
		Catalog:        service.NewCatalogService(vehicles),
		Reservations:   reservations,
		AdminAuth:      adminAuth,
		AdminFleet:     adminFleet,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Gatherer:       prometheus.DefaultGatherer,
		AccessLog:      os.Stdout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running",
			logger.Int("port", cfg.HTTPPort),
			logger.String("duration_mode", string(mode)),
			logger.String("session_store", cfg.SessionStore),
			logger.String("vehicle_store", cfg.VehicleStore),
			logger.String("admin_store", cfg.AdminStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openPostgres(ctx context.Context, url string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := repository.EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func buildVehicleStore(ctx context.Context, cfg config.Config, conn *sql.DB, seed []db.Vehicle) (repository.VehicleStore, error) {
	if cfg.VehicleStore != config.BackendPostgres {
		return repository.NewMemoryVehicleRepository(seed), nil
	}
	repo := repository.NewPostgresVehicleRepository(conn)
	if err := repo.SeedVehicles(ctx, seed); err != nil {
		return nil, err
	}
	return repo, nil
}

func buildSessionStore(ctx context.Context, cfg config.Config) (repository.SessionRepository, error) {
	if cfg.SessionStore != config.BackendRedis {
		return repository.NewMemorySessionRepository(), nil
	}
	client, err := repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	return repository.NewRedisSessionRepository(client, cfg.SessionTTL), nil
}

// buildAdminStore makes sure the configured admin account exists.
func buildAdminStore(ctx context.Context, cfg config.Config, conn *sql.DB, log logger.ILogger) (repository.AdminAuthRepository, error) {
	if cfg.AdminPassword == defaultAdminPassword {
		log.Warning("admin account uses the default password, set ADMIN_PASSWORD",
			logger.String("username", cfg.AdminUsername))
	}

	var repo repository.AdminAuthRepository
	if cfg.AdminStore == config.BackendPostgres {
		repo = repository.NewAdminAuthRepository(conn)
	} else {
		repo = repository.NewStaticAdminRepository()
	}

	existing, err := repo.GetByUsername(ctx, cfg.AdminUsername)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := repo.CreateAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("error creating admin %q: %w", cfg.AdminUsername, err)
		}
	}
	return repo, nil
}
