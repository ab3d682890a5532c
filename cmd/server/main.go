package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"

	"github.com/miketheofan/dispatchlab/internal/audit"
	"github.com/miketheofan/dispatchlab/internal/config"
	"github.com/miketheofan/dispatchlab/internal/dispatch"
	httpserver "github.com/miketheofan/dispatchlab/internal/interfaces/http"
	"github.com/miketheofan/dispatchlab/internal/metrics"
	"github.com/miketheofan/dispatchlab/internal/notification"
	"github.com/miketheofan/dispatchlab/internal/payment"
	"github.com/miketheofan/dispatchlab/internal/report"
	"github.com/miketheofan/dispatchlab/pkg/database"
	"github.com/miketheofan/dispatchlab/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Load .env overrides before viper reads the environment
	_ = gotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting dispatch server",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Create report output directory
	if err := os.MkdirAll(cfg.Report.OutputDir, 0755); err != nil {
		logger.Fatal("Failed to create report directory", zap.Error(err))
	}

	// Shared infrastructure
	sampler := dispatch.NewSampler()
	clock := clockz.RealClock
	recorder := audit.NewRepository(db.DB, logger)
	collector := metrics.New("dispatchlab")
	serviceLogger := utils.NewZapAdapter(logger)

	// Payment service
	paymentRegistry, err := payment.NewRegistry(payment.SimulationConfig{
		CardFailureRate:        cfg.Payments.CardFailureRate,
		PayPalFailureRate:      cfg.Payments.PayPalFailureRate,
		BankFailureRate:        cfg.Payments.BankFailureRate,
		CryptoCongestionChance: cfg.Payments.CryptoCongestionChance,
		CryptoCongestionRate:   cfg.Payments.CryptoCongestionRate,
	}, sampler, clock)
	if err != nil {
		logger.Fatal("Failed to build payment registry", zap.Error(err))
	}
	paymentService := payment.NewService(paymentRegistry, recorder, collector, serviceLogger)

	// Notification service
	notificationRegistry, err := notification.NewRegistry(notification.SimulationConfig{
		EmailFailureRate: cfg.Notifications.EmailFailureRate,
		SMSFailureRate:   cfg.Notifications.SMSFailureRate,
		PushFailureRate:  cfg.Notifications.PushFailureRate,
		SlackFailureRate: cfg.Notifications.SlackFailureRate,
	}, sampler, clock)
	if err != nil {
		logger.Fatal("Failed to build notification registry", zap.Error(err))
	}
	notificationService := notification.NewService(notificationRegistry, recorder, collector, serviceLogger)

	// Report exporter
	exporter := report.NewExporter(recorder, logger)

	// HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		paymentService,
		notificationService,
		recorder,
		exporter,
		cfg.Report.OutputDir,
		collector.Handler(),
		serviceLogger,
	)

	// Cancel the server context on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
