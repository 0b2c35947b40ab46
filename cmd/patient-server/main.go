package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ehr/patients/internal/config"
	"github.com/ehr/patients/internal/domain/patient"
	"github.com/ehr/patients/internal/platform/auth"
	"github.com/ehr/patients/internal/platform/db"
	"github.com/ehr/patients/internal/platform/events"
	"github.com/ehr/patients/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "patient-server",
		Short: "Patient registry API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the patient registry API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations for the postgres backend",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			migrator, closeFn, err := openMigrator(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Fprintf(cmd.OutOrStdout(), "Running migrations on schema: %s\n", schema)
			count, err := migrator.Up(cmd.Context(), schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			migrator, closeFn, err := openMigrator(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer closeFn()

			statuses, err := migrator.Status(cmd.Context(), schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(cmd.OutOrStdout(), schema, statuses)
			return nil
		},
	}

	for _, c := range []*cobra.Command{upCmd, statusCmd} {
		c.Flags().String("schema", "public", "Target schema for migrations")
		c.Flags().String("dir", "./migrations", "Path to migrations directory")
		cmd.AddCommand(c)
	}
	return cmd
}

func openMigrator(ctx context.Context, dir string) (*db.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for migrations")
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return db.NewMigrator(pool, dir), pool.Close, nil
}

func printStatus(w io.Writer, schema string, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "Migration status for schema: %s\n", schema)
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	for _, s := range statuses {
		state, at := "pending", ""
		if s.Applied {
			state = "applied"
			if s.AppliedAt != nil {
				at = s.AppliedAt.Format(time.RFC3339)
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, state, at)
	}
}

// newLogger writes human-readable lines in development and JSON elsewhere.
func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	if cfg.IsDev() {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg, os.Stdout)

	ctx := context.Background()
	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("failed to open storage")
	}
	defer backend.Close()

	opts := []patient.StoreOption{patient.WithLogger(logger)}
	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to message broker")
		}
		defer publisher.Close()
		opts = append(opts, patient.WithEventPublisher(publisher))
		logger.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing patient events")
	}

	store, err := patient.NewStore(ctx, backend.repo, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load patients")
	}
	logger.Info().Str("backend", cfg.StorageBackend).Int("patients", store.Count()).Msg("patients loaded")

	e := newServer(cfg, logger, store, backend)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires middleware and routes. It performs no I/O so tests can
// drive it with httptest.
func newServer(cfg *config.Config, logger zerolog.Logger, store *patient.Store, backend *storage) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Patient Management API"})
	})
	e.GET("/about", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Patient Management API: create, view, update, delete and sort patient records with BMI and health verdict.",
			"version": version,
		})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":   "ok",
			"version":  version,
			"backend":  cfg.StorageBackend,
			"patients": store.Count(),
		})
	})
	if backend != nil && backend.pool != nil {
		e.GET("/health/db", db.HealthHandler(backend.pool))
	}

	api := e.Group("")
	if cfg.RateLimitRPS > 0 {
		api.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimitRPS),
			Burst:     cfg.RateLimitBurst,
			ExpiresIn: 3 * time.Minute,
		})))
	}
	if cfg.AuthEnabled() {
		api.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.AuthJWTSecret),
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
		}))
	} else {
		api.Use(auth.DevAuthMiddleware())
	}

	patient.NewHandler(store).RegisterRoutes(api)
	return e
}
