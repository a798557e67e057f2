package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/auth"
	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/application/catalog"
	"github.com/jhoicas/Comercial-api/internal/application/closing"
	"github.com/jhoicas/Comercial-api/internal/application/finance"
	"github.com/jhoicas/Comercial-api/internal/application/report"
	"github.com/jhoicas/Comercial-api/internal/application/stock"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ClientUC      *catalog.ClientUseCase
	ProductUC     *catalog.ProductUseCase
	LedgerUC      *stock.LedgerUseCase
	ReceptionUC   *stock.ReceptionUseCase
	BalanceUC     *finance.BalanceUseCase
	InvoiceUC     *billing.InvoiceUseCase
	CreditNoteUC  *billing.CreditNoteUseCase
	PaymentUC     *billing.PaymentUseCase
	ClosingUC     *closing.ClosingUseCase
	ReportUC      *report.ReportUseCase
	Gate          *backup.Gate
	ReceptionRepo repository.ReceptionRepository
	ClosureRepo   repository.ClosureRepository
	AuditRepo     repository.AuditRepository
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)

	// Users (solo admin)
	users := protected.Group("/users")
	users.Post("/", admin, authHandler.CreateUser)

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	balanceHandler := NewBalanceHandler(deps.BalanceUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Archive)
	clients.Get("/:id/balance", balanceHandler.GetBalance)
	clients.Get("/:id/credit-check", balanceHandler.CheckCredit)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.LedgerUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id/price", productHandler.UpdatePrice)
	products.Get("/:id/stock", productHandler.GetStock)

	// Stock ledger (protegido; ajustes manuales y reparación solo admin)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC, deps.ReportUC)
	stockGroup.Post("/movements", admin, stockHandler.RegisterMovement)
	stockGroup.Post("/repair", admin, stockHandler.Repair)
	stockGroup.Get("/movements", stockHandler.History)
	stockGroup.Get("/report", stockHandler.Report)

	// Receptions (protegido)
	receptions := protected.Group("/receptions")
	receptionHandler := NewReceptionHandler(deps.ReceptionUC, deps.ReceptionRepo)
	receptions.Post("/", receptionHandler.Register)
	receptions.Get("/", receptionHandler.List)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)

	// Credit notes (protegido)
	creditNotes := protected.Group("/credit-notes")
	creditNoteHandler := NewCreditNoteHandler(deps.CreditNoteUC)
	creditNotes.Post("/", creditNoteHandler.Create)
	creditNotes.Get("/", creditNoteHandler.List)
	creditNotes.Get("/:id", creditNoteHandler.GetByID)

	// Payments (protegido)
	payments := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	payments.Post("/", paymentHandler.Register)
	payments.Get("/", paymentHandler.List)

	// Closings (solo admin)
	closings := protected.Group("/closings")
	closingHandler := NewClosingHandler(deps.ClosingUC, deps.ClosureRepo)
	closings.Post("/:year", admin, closingHandler.Close)
	closings.Get("/", closingHandler.List)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/clients/:id/situation", reportHandler.ClientSituation)
	reports.Get("/daily-sales", reportHandler.DailySales)
	reports.Get("/net-revenue", reportHandler.NetRevenue)

	// Backup (solo admin)
	backupGroup := protected.Group("/backup")
	backupHandler := NewBackupHandler(deps.Gate)
	backupGroup.Post("/quiescent", admin, backupHandler.Quiescent)

	// Audit (solo admin)
	audit := protected.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditRepo)
	audit.Get("/", admin, auditHandler.List)
}
