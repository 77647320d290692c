package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JuborajSujon/mfs-backend/internal/adapter/handler"
	"github.com/JuborajSujon/mfs-backend/internal/adapter/memstore"
	"github.com/JuborajSujon/mfs-backend/internal/adapter/middleware"
	"github.com/JuborajSujon/mfs-backend/internal/adapter/storage"
	"github.com/JuborajSujon/mfs-backend/internal/core/config"
	"github.com/JuborajSujon/mfs-backend/internal/core/ledger"
	"github.com/JuborajSujon/mfs-backend/internal/core/worker"
)

func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var (
		accounts  ledger.AccountStore
		txLedger  ledger.TransactionLedger
		requests  ledger.RequestQueue
		directory handler.AccountDirectory
		resolver  middleware.KeyResolver
		cache     middleware.ResponseCache
		pool      *pgxpool.Pool
	)

	if cfg.DatabaseURL != "" {
		var err error
		pool, err = storage.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := storage.Migrate(context.Background(), pool); err != nil {
			slog.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to postgres")

		accountRepo := storage.NewAccountRepository(pool)
		requestRepo := storage.NewRequestRepository(pool)

		accounts = accountRepo
		txLedger = storage.NewLedgerRepository(pool, cfg.WebhookURL)
		requests = requestRepo
		directory = accountRepo
		resolver = accountRepo
		cache = requestRepo
	} else {
		slog.Warn("DATABASE_URL not set, running with the in-memory store")
		mem := memstore.New()
		accounts = mem
		txLedger = mem
		requests = mem
		directory = mem
		resolver = mem
		cache = mem
	}

	engine := ledger.NewTransferEngine(accounts, txLedger)
	workflow := ledger.NewApprovalWorkflow(accounts, txLedger, requests)
	admin := ledger.NewAdmin(accounts)

	accountHandler := &handler.AccountHandler{Repo: directory}
	transferHandler := &handler.TransferHandler{Engine: engine}
	requestHandler := &handler.RequestHandler{Workflow: workflow}
	adminHandler := &handler.AdminHandler{Admin: admin}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/v1")

	// Public
	api.Post("/accounts", accountHandler.CreateAccount)
	api.Post("/accounts/:email/keys", accountHandler.GenerateKey)

	// Protected
	private := api.Use(middleware.Protected(resolver))
	private.Get("/balance", accountHandler.Balance)
	private.Post("/transfer", middleware.Idempotency(cache), transferHandler.SendMoney)
	private.Get("/transactions", transferHandler.GetHistory)
	private.Post("/cash-in", middleware.Idempotency(cache), requestHandler.SubmitCashIn)
	private.Post("/cash-out", middleware.Idempotency(cache), requestHandler.SubmitCashOut)
	private.Post("/requests/:id/approve", requestHandler.Approve)
	private.Get("/requests", requestHandler.Inbox)
	private.Patch("/admin/accounts/:email/status", adminHandler.SetStatus)

	if pool != nil && cfg.WebhookURL != "" {
		worker.StartWebhookWorker(pool, cfg.WebhookSecret)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if pool != nil {
		pool.Close()
		slog.Info("database connection closed")
	}

	slog.Info("server exited")
}
