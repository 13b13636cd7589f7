package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"period_scheduler/internal/app"
	"period_scheduler/internal/app/daterange"
	"period_scheduler/internal/domain/recurrence"
	domainTelegram "period_scheduler/internal/domain/telegram"
	"period_scheduler/internal/infra/checkpoint"
	"period_scheduler/internal/infra/config"
	idb "period_scheduler/internal/infra/database"
	"period_scheduler/internal/infra/logger"
	"period_scheduler/internal/infra/scheduler"
	"period_scheduler/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Period Scheduler starting...")

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	jobs, err := buildJobs(cfg.TriggerJobs)
	if err != nil {
		mainLogger.WithError(err).Fatal("Invalid trigger job configuration")
	}
	mainLogger.WithField("jobs", len(jobs)).Info("Configuration loaded.")

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := idb.EnsureSchema(ctx, db); err != nil {
		mainLogger.WithError(err).Fatal("Could not apply database schema")
	}
	mainLogger.Info("Database connection established successfully.")

	periodRepo := idb.NewPostgresPeriodRepository(db)

	// Initialize Telegram Bot (optional)
	var bot *telebot.Bot
	var tgClient domainTelegram.Client
	if cfg.TelegramToken != "" {
		botLogger := logger.Component("telegram")
		pref := telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) { // Global error handler
				entry := botLogger.WithError(err)
				if c != nil && c.Chat() != nil {
					entry = entry.WithField("chat_id", c.Chat().ID)
				}
				entry.Error("Telebot error")
			},
		}
		bot, err = telebot.NewBot(pref)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
		tgClient = telegram.NewTelebotAdapter(bot, cfg.NotifySilent)
		telegram.RegisterBotCommands(bot, cfg.NotifyChatID, botLogger, time.Now)
		mainLogger.Info("Telegram command handlers registered.")
	} else {
		mainLogger.Info("TELEGRAM_TOKEN not set; notifications are logged only.")
	}

	notifier := app.NewNotifier(tgClient, cfg.NotifyChatID, logger.Component("notifier"))
	closingService := app.NewClosingService(periodRepo, notifier, logger.Component("closings"))
	triggerService := app.NewTriggerService(periodRepo, notifier, logger.Component("triggers"))

	if cfg.BackfillEnabled() {
		if err := runBackfill(ctx, cfg, closingService); err != nil {
			mainLogger.WithError(err).Error("Backfill did not complete; it resumes from the checkpoint on next start")
		}
	}

	fired, err := triggerService.CatchUp(ctx, jobs, time.Now())
	if err != nil {
		mainLogger.WithError(err).Error("Catch-up of missed triggers failed")
	} else if len(fired) > 0 {
		mainLogger.WithField("jobs", fired).Info("Missed triggers fired")
	}

	periodScheduler := scheduler.NewPeriodScheduler(triggerService, closingService, jobs, cfg.CronSpecClosingCheck, logger.Component("scheduler"))
	if err := periodScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	if bot != nil {
		// Start bot in a goroutine so it doesn't block graceful shutdown handling
		go bot.Start()
	}
	mainLogger.Info("Application setup complete.")

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	if bot != nil {
		bot.Stop()
	}
	periodScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}

func buildJobs(specs []config.JobSpec) ([]app.Job, error) {
	jobs := make([]app.Job, 0, len(specs))
	for _, spec := range specs {
		anchor, err := recurrence.ParseAnchor(spec.Anchor)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", spec.Name, err)
		}
		jobs = append(jobs, app.Job{Name: spec.Name, Anchor: anchor})
	}
	return jobs, nil
}

func runBackfill(ctx context.Context, cfg *config.AppConfig, closingService *app.ClosingService) error {
	it, err := daterange.New(cfg.BackfillFrom, cfg.BackfillTo, cfg.BackfillStep)
	if err != nil {
		return fmt.Errorf("invalid backfill range: %w", err)
	}
	store, err := checkpoint.NewStore(cfg.CheckpointDir, "closing_backfill")
	if err != nil {
		return err
	}
	return closingService.Backfill(ctx, it, store)
}
