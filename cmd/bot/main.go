package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"availability-bot/internal/api"
	"availability-bot/internal/config"
	"availability-bot/internal/handler"
	"availability-bot/internal/metrics"
	"availability-bot/internal/notify"
	"availability-bot/internal/repository"
	"availability-bot/internal/service"
	"availability-bot/pkg/telegram"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "availability-bot",
		Short:         "Team availability, holidays and vacation requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd(), holidaysCmd(), importDaysCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// services is the wired application core shared by the subcommands.
type services struct {
	employees      *service.EmployeeService
	unavailability *service.UnavailabilityService
	vacations      *service.VacationService
	daysOff        *service.NonWorkingDayService
	availability   *service.AvailabilityService
}

func openDatabase(cfg *config.BotConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logrus.WithError(err).Warn("Failed to enable foreign keys")
	}
	return db, nil
}

func buildServices(db *gorm.DB, dispatcher service.Dispatcher, cfg *config.BotConfig) (*services, error) {
	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create employee repository: %w", err)
	}
	unavailRepo, err := repository.NewGormUnavailabilityRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create unavailability repository: %w", err)
	}
	vacationRepo, err := repository.NewGormVacationRequestRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create vacation request repository: %w", err)
	}
	daysOffRepo, err := repository.NewGormNonWorkingDayRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create non-working day repository: %w", err)
	}

	log := logrus.StandardLogger()

	s := &services{
		employees:      service.NewEmployeeService(employeeRepo),
		unavailability: service.NewUnavailabilityService(unavailRepo),
		vacations:      service.NewVacationService(vacationRepo, employeeRepo, dispatcher, cfg.DashboardURL),
		daysOff:        service.NewNonWorkingDayService(daysOffRepo),
	}
	s.availability = service.NewAvailabilityService(employeeRepo, unavailRepo, vacationRepo, s.daysOff)

	s.employees.SetLogger(log)
	s.unavailability.SetLogger(log)
	s.vacations.SetLogger(log)
	s.availability.SetLogger(log)
	return s, nil
}

// lateDispatcher lets the vacation service be built before the outbox,
// which needs the employee service for manager chat ids.
type lateDispatcher struct {
	target service.Dispatcher
}

func (d *lateDispatcher) Publish(ev notify.Event) {
	if d.target != nil {
		d.target.Publish(ev)
	}
}

func (d *lateDispatcher) SendEmail(msg notify.Message) {
	if d.target != nil {
		d.target.SendEmail(msg)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetBotConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.ConfigureLogger(logrus.StandardLogger())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.BotConfig) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logrus.WithError(err).Warn("Error closing database")
		}
	}()

	dispatcher := &lateDispatcher{}
	svc, err := buildServices(db, dispatcher, cfg)
	if err != nil {
		return err
	}

	if err := svc.employees.InitializeManager(ctx, cfg.BaseManagerChatID); err != nil {
		logrus.WithError(err).Warn("Failed to initialize manager")
	} else if cfg.BaseManagerChatID != 0 {
		logrus.WithField("chat_id", cfg.BaseManagerChatID).Info("Manager initialized")
	}

	if cfg.NonWorkingDaysFile != "" {
		if _, err := svc.daysOff.LoadFromFile(ctx, cfg.NonWorkingDaysFile); err != nil {
			logrus.WithError(err).Warn("Failed to load non-working days")
		}
	}

	client, err := telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug)
	if err != nil {
		return fmt.Errorf("failed to create Telegram client: %w", err)
	}
	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	notifiers := []notify.Notifier{notify.NewTelegramNotifier(client.Bot, svc.employees.ManagerChatIDs)}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		notifiers = append(notifiers, notify.NewRedisNotifier(rdb, cfg.Redis.Channel))
	}

	mailer := notify.NewMailer(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})

	outbox := notify.NewOutbox(notify.OutboxConfig{
		Workers: cfg.OutboxWorkers,
		Size:    cfg.OutboxSize,
		Rate:    cfg.NotifyRate,
	}, mailer, notifiers...)
	outbox.SetLogger(logrus.StandardLogger())
	dispatcher.target = outbox

	metrics.Register()

	server := api.NewServer(api.Config{
		Addr:         cfg.HTTPAddr,
		APIKey:       cfg.APIKey,
		Employees:    svc.employees,
		Vacations:    svc.vacations,
		Availability: svc.availability,
		Ready: func(ctx context.Context) error {
			if err := sqlDB.PingContext(ctx); err != nil {
				return err
			}
			if rdb != nil {
				return rdb.Ping(ctx).Err()
			}
			return nil
		},
		Logger: logrus.StandardLogger(),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run(ctx)
	}()

	botHandler := handler.NewHandler(client, svc.employees, svc.unavailability, svc.vacations, svc.availability, cfg)
	botHandler.SetLogger(logrus.StandardLogger())
	go botHandler.HandleUpdates(ctx, client.Updates(ctx))

	logrus.Info("Bot started. Press Ctrl+C to stop.")

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serverErr:
		if runErr != nil {
			logrus.WithError(runErr).Error("HTTP API stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := outbox.Close(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("Outbox did not drain")
	}

	logrus.Info("Bot stopped gracefully")
	return runErr
}
