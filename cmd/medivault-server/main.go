package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medivault/api/internal/config"
	"github.com/medivault/api/internal/domain/appointments"
	"github.com/medivault/api/internal/domain/documents"
	"github.com/medivault/api/internal/domain/symptoms"
	"github.com/medivault/api/internal/domain/users"
	"github.com/medivault/api/internal/domain/waitlist"
	"github.com/medivault/api/internal/platform/auth"
	"github.com/medivault/api/internal/platform/db"
	"github.com/medivault/api/internal/platform/filestore"
	"github.com/medivault/api/internal/platform/mailer"
	"github.com/medivault/api/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medivault-server",
		Short: "MediVault API Server",
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
		Short: "Start the MediVault API server",
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

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// File storage
	fileStore, err := filestore.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create upload directory")
	}

	// Mail. Without a relay, sends fail outside development so callers see
	// the error instead of a silent no-op.
	var sender mailer.EmailSender
	switch {
	case cfg.SMTPAddr != "":
		sender = mailer.NewSMTPSender(cfg.SMTPAddr, cfg.MailFrom)
	case cfg.IsDev():
		sender = mailer.NewLogSender(logger)
	default:
		logger.Warn().Msg("SMTP_ADDR not set, mail delivery disabled")
		sender = mailer.NewDisabledSender()
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// Public routes
	public := e.Group("/api")

	// Authenticated routes
	api := e.Group("/api")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	public.Use(middleware.RateLimit(rateLimitCfg))
	api.Use(middleware.RateLimit(rateLimitCfg))

	sessions := auth.NewPGSessionStore(pool)
	if cfg.IsDev() {
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.Middleware(auth.Config{
			SigningKey: []byte(cfg.SessionSecret),
			Sessions:   sessions,
		}))
	}

	// Domain handlers
	userSvc := users.NewService(users.NewRepoPG(pool))
	users.NewHandler(userSvc).RegisterRoutes(api)

	docSvc := documents.NewService(documents.NewRepoPG(pool), fileStore, logger)
	documents.NewHandler(docSvc).RegisterRoutes(api)

	symptomSvc := symptoms.NewService(symptoms.NewRepoPG(pool))
	symptoms.NewHandler(symptomSvc).RegisterRoutes(api)

	apptSvc := appointments.NewService(appointments.NewRepoPG(pool))
	appointments.NewHandler(apptSvc).RegisterRoutes(api)

	waitlistSvc := waitlist.NewService(sender, cfg.MailNotify, logger)
	waitlist.NewHandler(waitlistSvc).RegisterRoutes(public)

	// Expired sessions are swept periodically.
	sweepCtx, sweepCancel := context.WithCancel(ctx)
	defer sweepCancel()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n, err := sessions.DeleteExpired(sweepCtx); err != nil {
					logger.Warn().Err(err).Msg("session sweep failed")
				} else if n > 0 {
					logger.Info().Int64("removed", n).Msg("swept expired sessions")
				}
			}
		}
	}()

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
