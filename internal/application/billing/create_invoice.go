package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/finance"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	domfinance "github.com/jhoicas/Comercial-api/internal/domain/finance"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

// Estados del workflow de creación de factura. El avance es estrictamente
// secuencial y cualquier fallo aborta el workflow completo sin efectos.
const (
	stateValidating    = "VALIDATING"
	stateStockChecked  = "STOCK_CHECKED"
	stateCreditChecked = "CREDIT_CHECKED"
	stateCommitted     = "COMMITTED"
)

// InvoiceUseCase orquesta la creación de facturas: validación, control de
// stock, control de crédito y confirmación atómica de factura, líneas,
// movimientos de stock y auditoría.
type InvoiceUseCase struct {
	txRunner    TxRunner
	ledger      StockLedger
	balance     *finance.BalanceUseCase
	invoiceRepo repository.InvoiceRepository // lecturas fuera de workflow
	auditRepo   repository.AuditRepository   // atado al pool, no a la tx del workflow
	gate        *backup.Gate
	log         *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	ledger StockLedger,
	balance *finance.BalanceUseCase,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	gate *backup.Gate,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		balance:     balance,
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		gate:        gate,
		log:         log,
	}
}

// Get devuelve una factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*entity.Invoice, []*entity.InvoiceLine, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if invoice == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLines(id)
	if err != nil {
		return nil, nil, err
	}
	return invoice, lines, nil
}

// List devuelve facturas filtradas por cliente y/o año.
func (uc *InvoiceUseCase) List(ctx context.Context, clientID string, year, limit, offset int) ([]*entity.Invoice, error) {
	return uc.invoiceRepo.List(clientID, year, limit, offset)
}

// invoiceDraft líneas ya resueltas contra el catálogo, listas para persistir.
type invoiceDraft struct {
	client   *entity.Client
	date     time.Time
	lines    []entity.InvoiceLine
	products map[string]*entity.Product
	totalHT  decimal.Decimal
	totalTVA decimal.Decimal
	totalTTC decimal.Decimal
}

// Create ejecuta el workflow completo. La verificación de stock y de crédito
// se repite dentro de la transacción sobre filas bloqueadas; la pasada previa
// solo sirve para rechazar temprano sin abrir transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID, username string, in dto.CreateInvoiceRequest) (*entity.Invoice, []entity.InvoiceLine, error) {
	state := stateValidating

	date, err := parseDocumentDate(in.Date)
	if err != nil {
		return nil, nil, err
	}
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || !item.Quantity.IsPositive() || item.UnitPrice.IsNegative() {
			return nil, nil, domain.ErrInvalidInput
		}
	}

	done := uc.gate.BeginWorkflow()
	defer done()

	now := time.Now()
	invoice := &entity.Invoice{
		ID:       uuid.New().String(),
		Year:     date.Year(),
		Date:     date,
		ClientID: in.ClientID,
		Status:   entity.InvoiceStatusOpen,
		Transport: entity.Transport{
			Driver:       in.Transport.Driver,
			TractorPlate: in.Transport.TractorPlate,
			TrailerPlate: in.Transport.TrailerPlate,
			Carrier:      in.Transport.Carrier,
		},
		CreatedBy: userID,
		CreatedAt: now,
	}
	var lines []entity.InvoiceLine

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		draft, err := uc.buildDraft(r, in, date)
		if err != nil {
			return err
		}

		lastClosed, err := r.Closures.LastClosedYear()
		if err != nil {
			return err
		}
		if invoice.Year <= lastClosed {
			return domain.ErrYearClosed
		}

		number, err := r.Invoices.NextNumber(invoice.Year)
		if err != nil {
			return err
		}
		invoice.Number = number

		// Salidas de stock primero: GetStockForUpdate serializa facturas
		// concurrentes sobre el mismo pool y rechaza niveles negativos.
		for i := range draft.lines {
			line := &draft.lines[i]
			product := draft.products[line.ProductID]
			if err := uc.ledger.RecordInTx(r.Movements, r.Products, product, entity.MovementInvoiceOut,
				line.Quantity.Neg(), "", number, invoice.ID, userID, now); err != nil {
				return err
			}
		}
		state = stateStockChecked

		// Control de crédito sobre la misma instantánea transaccional.
		breakdown, err := uc.balance.ComputeBalanceWith(draft.client, now, r.Invoices, r.CreditNotes, r.Payments, r.Closures)
		if err != nil {
			return err
		}
		decision := domfinance.CheckCreditLimit(breakdown, draft.client.CreditLimit, draft.totalTTC)
		if !decision.Allowed {
			uc.log.Warn().
				Str("client_id", draft.client.ID).
				Str("future_balance", decision.FutureBalance.StringFixed(2)).
				Str("overrun", decision.Overrun.StringFixed(2)).
				Msg("factura bloqueada por límite de crédito")
			return domain.ErrCreditLimitExceeded
		}
		state = stateCreditChecked

		invoice.TotalHT = draft.totalHT
		invoice.TotalTVA = draft.totalTVA
		invoice.TotalTTC = draft.totalTTC
		if err := r.Invoices.Create(invoice); err != nil {
			return err
		}
		for i := range draft.lines {
			draft.lines[i].InvoiceID = invoice.ID
			if err := r.Invoices.CreateLine(&draft.lines[i]); err != nil {
				return err
			}
		}
		lines = draft.lines

		return r.Audit.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			UserID:    userID,
			Username:  username,
			Action:    "INVOICE_CREATED",
			Details:   number + " TTC " + draft.totalTTC.StringFixed(2),
			EntityRef: invoice.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		uc.log.Info().
			Str("client_id", in.ClientID).
			Str("state", state).
			Err(err).
			Msg("workflow de factura abortado")
		// La entrada de abort se escribe fuera de la tx revertida.
		if auditErr := uc.auditRepo.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			UserID:    userID,
			Username:  username,
			Action:    "INVOICE_ABORTED",
			Details:   state + ": " + err.Error(),
			EntityRef: in.ClientID,
			CreatedAt: time.Now(),
		}); auditErr != nil {
			uc.log.Error().Err(auditErr).Msg("no se pudo registrar el abort en auditoría")
		}
		return nil, nil, err
	}

	state = stateCommitted
	uc.log.Info().
		Str("number", invoice.Number).
		Str("state", state).
		Str("total_ttc", invoice.TotalTTC.StringFixed(2)).
		Msg("factura creada")
	return invoice, lines, nil
}

// buildDraft resuelve líneas contra el catálogo y acumula los totales.
// Precio unitario en cero toma el precio vigente del producto.
func (uc *InvoiceUseCase) buildDraft(r Repos, in dto.CreateInvoiceRequest, date time.Time) (*invoiceDraft, error) {
	client, err := r.Clients.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil || !client.Active {
		return nil, domain.ErrNotFound
	}

	draft := &invoiceDraft{
		client:   client,
		date:     date,
		products: make(map[string]*entity.Product, len(in.Items)),
		totalHT:  decimal.Zero,
		totalTVA: decimal.Zero,
		totalTTC: decimal.Zero,
	}
	for _, item := range in.Items {
		product, err := r.Products.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Active {
			return nil, domain.ErrNotFound
		}
		draft.products[product.ID] = product

		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}
		amount := item.Quantity.Mul(unitPrice)
		tva := amount.Mul(product.TaxRate)
		draft.lines = append(draft.lines, entity.InvoiceLine{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			Amount:    amount,
		})
		draft.totalHT = draft.totalHT.Add(amount)
		draft.totalTVA = draft.totalTVA.Add(tva)
	}
	draft.totalTTC = draft.totalHT.Add(draft.totalTVA)
	return draft, nil
}

// parseDocumentDate fecha YYYY-MM-DD; vacía significa hoy.
func parseDocumentDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return parsed, nil
}
