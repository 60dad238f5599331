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

	"github.com/wellnest/wellnest/internal/config"
	"github.com/wellnest/wellnest/internal/domain/account"
	"github.com/wellnest/wellnest/internal/domain/billing"
	"github.com/wellnest/wellnest/internal/domain/insights"
	"github.com/wellnest/wellnest/internal/domain/medication"
	"github.com/wellnest/wellnest/internal/domain/nutrition"
	"github.com/wellnest/wellnest/internal/domain/patient"
	"github.com/wellnest/wellnest/internal/domain/recipes"
	"github.com/wellnest/wellnest/internal/domain/scheduling"
	"github.com/wellnest/wellnest/internal/domain/shopping"
	"github.com/wellnest/wellnest/internal/domain/vitals"
	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/auth"
	"github.com/wellnest/wellnest/internal/platform/db"
	"github.com/wellnest/wellnest/internal/platform/httpx"
	"github.com/wellnest/wellnest/internal/platform/middleware"
	"github.com/wellnest/wellnest/internal/platform/notification"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wellnest-server",
		Short: "WellNest family health API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(notifyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
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
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Rollback last migration (not supported)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("WARNING: migrate down is destructive and not supported by the built-in runner.")
			fmt.Println("Restore from a database backup instead.")
			return nil
		},
	})

	return cmd
}

// notifyCmd runs one notification sweep from the command line. Deployments
// without an HTTP scheduler can invoke this from cron directly instead of
// calling the /api/cron/notifications endpoint.
func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send pending notifications",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run one notification sweep and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

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

			mailer, err := notification.NewMailer(ctx, cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, logger)
			if err != nil {
				return err
			}

			notifier := notification.NewNotifier(notification.NewSourcePG(pool), mailer, logger)
			res, err := notifier.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Reminders sent: %d, invites sent: %d, failed: %d\n", res.RemindersSent, res.InvitesSent, res.Failed)
			return nil
		},
	})

	return cmd
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	mailer, err := notification.NewMailer(ctx, cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build mailer")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpx.ErrorHandler(logger, cfg.IsProduction())

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Metrics())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health and metrics stay outside the authenticated groups.
	e.GET("/health", func(c echo.Context) error {
		h := db.Check(c.Request().Context(), pool)
		status := http.StatusOK
		if !h.OK {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, h)
	})
	e.GET("/metrics", middleware.MetricsHandler())

	// API group: every route requires a caller identity.
	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
		}))
	}

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.Audit(logger))

	// Webhook and cron groups authenticate with shared secrets, not JWTs.
	hooks := e.Group("/api/webhooks")
	cron := e.Group("/api/cron")

	// -- Wire domain services --

	store := access.NewStorePG(pool)
	resolver := access.NewResolver(store)

	billingSvc := billing.NewService(billing.NewRepoPG(pool), store, logger)
	billingHandler := billing.NewHandler(billingSvc, cfg.WebhookSecret)
	billingHandler.RegisterRoutes(apiV1, hooks)

	accountSvc := account.NewService(account.NewAccountRepoPG(pool), account.NewFamilyMemberRepoPG(pool), billingSvc)
	account.NewHandler(accountSvc).RegisterRoutes(apiV1)

	patientSvc := patient.NewService(patient.NewRepoPG(pool), resolver, store)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	vitalsSvc := vitals.NewService(vitals.NewRepoPG(pool), resolver)
	vitals.NewHandler(vitalsSvc).RegisterRoutes(apiV1)

	medicationSvc := medication.NewService(medication.NewRepoPG(pool), resolver)
	medication.NewHandler(medicationSvc).RegisterRoutes(apiV1)

	schedulingSvc := scheduling.NewService(scheduling.NewRepoPG(pool), resolver)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(apiV1)

	nutritionSvc := nutrition.NewService(nutrition.NewRepoPG(pool), resolver)
	nutrition.NewHandler(nutritionSvc).RegisterRoutes(apiV1)

	shoppingSvc := shopping.NewService(shopping.NewRepoPG(pool), store)
	shopping.NewHandler(shoppingSvc).RegisterRoutes(apiV1)

	recipesSvc := recipes.NewService(recipes.NewRepoPG(pool), store, shoppingSvc)
	recipes.NewHandler(recipesSvc).RegisterRoutes(apiV1)

	insightsSvc := insights.NewService(insights.NewRepoPG(pool))
	insights.NewHandler(insightsSvc).RegisterRoutes(apiV1)

	notifier := notification.NewNotifier(notification.NewSourcePG(pool), mailer, logger)
	notification.NewHandler(notifier, cfg.CronSecret).RegisterRoutes(cron)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
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
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
