package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	openai "github.com/sashabaranov/go-openai"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/ledgerpipe/ledgerpipe/internal/ai"
	"github.com/ledgerpipe/ledgerpipe/internal/config"
	httpadapter "github.com/ledgerpipe/ledgerpipe/internal/interfaces/http"
	"github.com/ledgerpipe/ledgerpipe/internal/ledger"
	"github.com/ledgerpipe/ledgerpipe/internal/pipeline"
	"github.com/ledgerpipe/ledgerpipe/internal/report"
	"github.com/ledgerpipe/ledgerpipe/internal/resilience"
	"github.com/ledgerpipe/ledgerpipe/internal/store"
	"github.com/ledgerpipe/ledgerpipe/pkg/database"
	"github.com/ledgerpipe/ledgerpipe/pkg/utils"
)

func main() {
	// Load .env if present; real deployments use the environment directly
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

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

	logger.Info("Starting invoice-to-ledger bridge",
		zap.Int("port", cfg.Server.Port),
		zap.String("model", cfg.OpenAI.Model))

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	numberStore := store.NewInvoiceNumberStore(db, logger)
	if err := numberStore.Init(ctx); err != nil {
		logger.Fatal("Failed to initialize invoice number store", zap.Error(err))
	}

	invoker := resilience.NewInvoker(resilience.Options{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay,
		MaxDelay:   cfg.Retry.MaxDelay,
	}, logger)

	client := openai.NewClient(cfg.OpenAI.APIKey)
	classifier := ai.NewClassifier(client, cfg.OpenAI.Model, invoker, logger)
	extractor := ai.NewExtractor(client, cfg.OpenAI.Model, invoker, logger)
	processor := pipeline.NewProcessor(classifier, extractor, logger)

	routing := map[ledger.Target]ledger.RoutingIDs{
		ledger.TargetQuickBooks: {
			VendorID:  cfg.Ledgers.QuickBooks.VendorID,
			AccountID: cfg.Ledgers.QuickBooks.AccountID,
		},
		ledger.TargetXero: {
			ContactID: cfg.Ledgers.Xero.ContactID,
		},
		ledger.TargetWave: {
			BusinessID: cfg.Ledgers.Wave.BusinessID,
			VendorID:   cfg.Ledgers.Wave.VendorID,
		},
		ledger.TargetFreshBooks: {
			VendorID: cfg.Ledgers.FreshBooks.VendorID,
		},
	}
	defaults := ledger.DefaultProviderDefaults()
	if cfg.Ledgers.QuickBooks.TaxCode != "" {
		defaults.QuickBooksTaxCode = cfg.Ledgers.QuickBooks.TaxCode
	}
	if cfg.Ledgers.Xero.AccountCode != "" {
		defaults.XeroAccountCode = cfg.Ledgers.Xero.AccountCode
	}
	defaults.WaveExpenseAccount = cfg.Ledgers.Wave.ExpenseAccountID

	if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
		logger.Fatal("Failed to create report directory", zap.Error(err))
	}
	reportWriter := report.NewWriter(logger)
	handlers := httpadapter.NewHandlers(processor, numberStore, routing, defaults,
		reportWriter, cfg.Report.OutputDir, logger)
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
