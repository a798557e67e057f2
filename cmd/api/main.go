package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Comercial-api/internal/application/auth"
	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/application/catalog"
	"github.com/jhoicas/Comercial-api/internal/application/closing"
	"github.com/jhoicas/Comercial-api/internal/application/finance"
	"github.com/jhoicas/Comercial-api/internal/application/report"
	"github.com/jhoicas/Comercial-api/internal/application/stock"
	"github.com/jhoicas/Comercial-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Comercial-api/internal/interfaces/http"
	"github.com/jhoicas/Comercial-api/pkg/config"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Reconciliación de esquema antes de servir tráfico. Un conflicto no
	// reparable de forma aditiva detiene el arranque.
	reconciler := postgres.NewReconciler(pool, log)
	repair, err := reconciler.Reconcile(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("reconciliación de esquema")
	}
	if !repair.Empty() {
		log.Info().
			Strs("tables_created", repair.TablesCreated).
			Strs("columns_added", repair.ColumnsAdded).
			Strs("type_warnings", repair.TypeWarnings).
			Msg("esquema reparado")
	}

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	creditNoteRepo := postgres.NewCreditNoteRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	receptionRepo := postgres.NewReceptionRepository(pool)
	closureRepo := postgres.NewClosureRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)

	stockTx := postgres.NewStockTxRunner(pool)
	billingTx := postgres.NewBillingTxRunner(pool)
	snapshots := postgres.NewSnapshotRunner(pool)
	gate := backup.NewGate()

	ledgerUC := stock.NewLedgerUseCase(stockTx, productRepo, movementRepo, gate, log)
	receptionUC := stock.NewReceptionUseCase(stockTx, ledgerUC, productRepo, gate)
	balanceUC := finance.NewBalanceUseCase(clientRepo, invoiceRepo, creditNoteRepo, paymentRepo, closureRepo)
	invoiceUC := billing.NewInvoiceUseCase(billingTx, ledgerUC, balanceUC, invoiceRepo, auditRepo, gate, log)
	creditNoteUC := billing.NewCreditNoteUseCase(billingTx, ledgerUC, creditNoteRepo, auditRepo, gate, log)
	paymentUC := billing.NewPaymentUseCase(billingTx, paymentRepo, gate)
	closingUC := closing.NewClosingUseCase(billingTx, closureRepo, gate, log)
	reportUC := report.NewReportUseCase(snapshots)
	clientUC := catalog.NewClientUseCase(clientRepo, auditRepo, log)
	productUC := catalog.NewProductUseCase(productRepo, auditRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, cfg.JWT, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Comercial API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ClientUC:      clientUC,
		ProductUC:     productUC,
		LedgerUC:      ledgerUC,
		ReceptionUC:   receptionUC,
		BalanceUC:     balanceUC,
		InvoiceUC:     invoiceUC,
		CreditNoteUC:  creditNoteUC,
		PaymentUC:     paymentUC,
		ClosingUC:     closingUC,
		ReportUC:      reportUC,
		Gate:          gate,
		ReceptionRepo: receptionRepo,
		ClosureRepo:   closureRepo,
		AuditRepo:     auditRepo,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
