package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // Timezone data for minimal container images

	"shutdown_notification_bot/internal/app"
	"shutdown_notification_bot/internal/infra/config"
	idb "shutdown_notification_bot/internal/infra/database"
	"shutdown_notification_bot/internal/infra/logger"
	"shutdown_notification_bot/internal/infra/metrics"
	"shutdown_notification_bot/internal/infra/powerapi"
	"shutdown_notification_bot/internal/infra/scheduler"
	"shutdown_notification_bot/internal/infra/telegram"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	startupTimeout  = 30 * time.Second
	telegramTimeout = 15 * time.Second
	metricsJob      = "shutdown_notifier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Environment)
	mainLogger := logger.Component("main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Timezone: %s", cfg.LogLevel, cfg.Environment, cfg.Timezone)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(startupCtx, cfg.DatabaseURL, idb.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		mainLogger.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	if err := idb.NewMigrator(db, logger.Component("migrator")).Run(startupCtx); err != nil {
		mainLogger.Fatalf("Could not apply database migrations: %v", err)
	}

	// Initialize Repositories
	reminderRepo := idb.NewPostgresReminderRepository(db)
	scheduleRepo := idb.NewPostgresScheduleRepository(db)
	metadataRepo := idb.NewPostgresMetadataRepository(db)

	// Initialize Telegram Bot. It only sends, so no poller is configured.
	bot, err := telegram.NewBot(cfg.TelegramToken, "", telegramTimeout, false)
	if err != nil {
		mainLogger.Fatalf("Could not create Telegram bot: %v", err)
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	provider := powerapi.NewClient(cfg.PowerAPIURL, cfg.AccountNumber, cfg.PowerAPITimeout, logger.Component("powerapi"))
	recorder := metrics.NewRecorder(prometheus.NewRegistry())

	reminderService := app.NewReminderService(reminderRepo, scheduleRepo, telegramClient, app.ReminderConfig{
		LeadTime:      cfg.ReminderLeadTime,
		ResendOnReAdd: cfg.ResendSentOnReAdd,
		Location:      cfg.Timezone,
	}, recorder, logger.Component("reminders"))
	notifier := app.NewChangeNotifier(telegramClient, cfg.TelegramGroupID, cfg.Timezone, logger.Component("notifier"))
	syncService := app.NewSyncService(provider, scheduleRepo, metadataRepo, reminderService, notifier, app.SyncConfig{
		ChatID:            cfg.TelegramGroupID,
		QueueID:           cfg.QueueID,
		Location:          cfg.Timezone,
		APICooldown:       cfg.APICooldown,
		ReminderLookBack:  cfg.ReminderLookBack,
		ReminderRetention: cfg.ReminderRetention,
		ScheduleTTL:       cfg.ScheduleTTL,
	}, recorder, logger.Component("sync"))
	mainLogger.Info("Services initialized.")

	job := func(ctx context.Context) error {
		runErr := syncService.Run(ctx)
		if cfg.PushgatewayURL != "" {
			if err := recorder.Push(ctx, cfg.PushgatewayURL, metricsJob); err != nil {
				mainLogger.WithError(err).Warn("Could not push run metrics")
			}
		}
		return runErr
	}

	if cfg.CronSpec == "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
		defer cancel()
		if err := scheduler.RunOnce(ctx, job, mainLogger); err != nil {
			mainLogger.WithError(err).Error("Sync run failed")
			return
		}
		mainLogger.Info("Sync run completed.")
		return
	}

	syncScheduler := scheduler.NewSyncScheduler(job, cfg.CronSpec, cfg.RunTimeout, cfg.Timezone, logger.Component("scheduler"))
	if err := syncScheduler.Start(); err != nil {
		mainLogger.Fatalf("Could not start scheduler: %v", err)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	syncScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
