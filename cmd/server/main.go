package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sellscout/sellscout-backend-go/internal/analysis"
	"github.com/sellscout/sellscout-backend-go/internal/api"
	"github.com/sellscout/sellscout-backend-go/internal/background"
	"github.com/sellscout/sellscout-backend-go/internal/cache"
	"github.com/sellscout/sellscout-backend-go/internal/config"
	"github.com/sellscout/sellscout-backend-go/internal/database"
	"github.com/sellscout/sellscout-backend-go/internal/handler"
	"github.com/sellscout/sellscout-backend-go/internal/logging"
	"github.com/sellscout/sellscout-backend-go/internal/mailer"
	"github.com/sellscout/sellscout-backend-go/internal/repository"
	"github.com/sellscout/sellscout-backend-go/internal/scheduler"
	"github.com/sellscout/sellscout-backend-go/internal/service"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.NewMigrationManager(db, log).RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	reportRepo := repository.NewReportRepository(db)

	memCache := cache.New()
	defer memCache.Stop()
	scorer := analysis.NewScorer(memCache)

	mail := mailer.Select(cfg.SMTP, log)
	log.Info().Str("mode", mail.Mode()).Msg("mailer selected")

	pool := background.New(cfg.Workers, log)
	defer pool.Stop()

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, log)
	productService := service.NewProductService(productRepo, scorer, memCache, log)
	importService := service.NewImportService(productRepo, log)
	reportService := service.NewReportService(userRepo, productRepo, reportRepo, mail, scorer, log)

	sched := scheduler.New(cfg.Scheduler.PollInterval, log)
	registerTasks(sched, cfg, reportService, log)
	sched.Start()
	defer sched.Stop()

	router := api.SetupRouter(cfg, api.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService, importService),
		Report:  handler.NewReportHandler(reportService, pool),
		System:  handler.NewSystemHandler(sched, mail, pool),
	}, log)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func registerTasks(sched *scheduler.Scheduler, cfg *config.Config, reports *service.ReportService, log zerolog.Logger) {
	daily, err := scheduler.DailyAt(cfg.Scheduler.DailyHour, cfg.Scheduler.DailyMinute)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid daily report schedule")
	}
	sched.Register("daily-reports", daily, reports.RunDailyReports)

	weekly, err := scheduler.WeeklyAt(cfg.Scheduler.WeeklyWeekday, cfg.Scheduler.WeeklyHour, cfg.Scheduler.WeeklyMinute)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid weekly summary schedule")
	}
	sched.Register("weekly-summary", weekly, reports.RunWeeklySummary)

	heartbeat, err := scheduler.Interval(cfg.Scheduler.HeartbeatEvery)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid heartbeat interval")
	}
	sched.Register("heartbeat", heartbeat, func() error {
		log.Info().Msg("scheduler heartbeat")
		return nil
	})
}
