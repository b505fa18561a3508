package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/calendar/internal/config"
	"github.com/ehr/calendar/internal/domain/calendar"
	"github.com/ehr/calendar/internal/platform/db"
	"github.com/ehr/calendar/internal/platform/export"
	"github.com/ehr/calendar/internal/platform/middleware"
	"github.com/ehr/calendar/internal/platform/viewstate"
	"github.com/ehr/calendar/migrations"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "calendar-server",
		Short: "Hospital appointment calendar API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(gridCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg != nil && cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openSource returns the Postgres-backed source when DATABASE_URL is set and
// the seeded in-memory source otherwise. The pool is nil for the latter.
func openSource(ctx context.Context, cfg *config.Config) (calendar.AppointmentSource, *pgxpool.Pool, error) {
	if !cfg.UsesDatabase() {
		src, err := calendar.NewMemorySource(calendar.SeedIndex())
		return src, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return calendar.NewSourcePG(pool), pool, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the calendar API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	withMigrator := func(fn func(ctx context.Context, m *db.Migrator) error) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.UsesDatabase() {
			return fmt.Errorf("DATABASE_URL is required for migrations")
		}
		ctx := context.Background()
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(ctx, db.NewMigrator(pool, migrations.FS))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *db.Migrator) error {
				count, err := m.Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *db.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				printMigrationStatus(cmd.OutOrStdout(), statuses)
				return nil
			})
		},
	})

	return cmd
}

func gridCmd() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print a month as a Monday-first grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := monthFromFlags(year, month)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			src, pool, err := openSource(ctx, cfg)
			if err != nil {
				return err
			}
			if pool != nil {
				defer pool.Close()
			}

			svc := calendar.NewService(src, zerolog.Nop())
			grid, index, err := svc.Month(ctx, ref)
			if err != nil {
				return err
			}
			renderGrid(cmd.OutOrStdout(), grid, index)
			return nil
		},
	}
	addMonthFlags(cmd, &year, &month)
	return cmd
}

func exportCmd() *cobra.Command {
	var year, month int
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a month of appointments as ics, csv or xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := monthFromFlags(year, month)
			if err != nil {
				return err
			}
			if _, err := export.ContentType(format); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			src, pool, err := openSource(ctx, cfg)
			if err != nil {
				return err
			}
			if pool != nil {
				defer pool.Close()
			}

			index, err := calendar.NewService(src, zerolog.Nop()).Snapshot(ctx, ref)
			if err != nil {
				return err
			}
			if out == "" {
				out = export.Filename(format, ref)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			doc := export.Document{Hospital: cfg.HospitalName, Month: ref, Index: index, Stamp: time.Now()}
			if err := export.Write(f, format, doc); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	addMonthFlags(cmd, &year, &month)
	cmd.Flags().StringVar(&format, "format", export.FormatICS, "Export format: ics, csv or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default appointments_YYYY-MM.<format>)")
	return cmd
}

func addMonthFlags(cmd *cobra.Command, year, month *int) {
	now := time.Now()
	cmd.Flags().IntVar(year, "year", now.Year(), "Calendar year")
	cmd.Flags().IntVar(month, "month", int(now.Month()), "Calendar month, 1-12")
}

// monthFromFlags converts the 1-based --month flag to a ReferenceMonth.
func monthFromFlags(year, month int) (calendar.ReferenceMonth, error) {
	if year < 1 || year > 9999 {
		return calendar.ReferenceMonth{}, fmt.Errorf("--year must be between 1 and 9999, got %d", year)
	}
	if month < 1 || month > 12 {
		return calendar.ReferenceMonth{}, fmt.Errorf("--month must be between 1 and 12, got %d", month)
	}
	return calendar.ReferenceMonth{Year: year, Month: month - 1}, nil
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		bootLogger := newLogger(nil)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Appointment source
	src, pool, err := openSource(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open appointment source")
	}
	if pool != nil {
		defer pool.Close()
		logger.Info().Msg("connected to database")
	} else {
		logger.Info().Msg("serving seeded in-memory appointments")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:  []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{echo.HeaderContentDisposition, middleware.RequestIDHeader},
	}))
	e.Use(echomw.BodyLimit("64K"))

	// API group
	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	apiV1.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Calendar
	calendarSvc := calendar.NewService(src, logger)
	calendar.NewHandler(calendarSvc).RegisterRoutes(apiV1)

	// Calendar views (selection state)
	views := viewstate.NewManager(cfg.ViewTTL, logger)
	viewstate.NewHandler(views, calendarSvc, logger).RegisterRoutes(apiV1)
	views.StartCleanup(ctx, time.Minute)

	// Exports
	export.NewHandler(calendarSvc, cfg.HospitalName, logger).RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":   "ok",
			"hospital": cfg.HospitalName,
		})
	})
	// A nil *pgxpool.Pool must not reach HealthHandler as a non-nil interface.
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	} else {
		e.GET("/health/db", db.HealthHandler(nil))
	}

	// Graceful shutdown
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
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
