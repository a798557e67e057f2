package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

// Estados del workflow de avoir.
const (
	stateBoundsChecked = "BOUNDS_CHECKED"
)

// CreditNoteUseCase orquesta la creación de avoirs: un avoir siempre nace de
// una factura de origen, devuelve mercancía al pool de stock y está acotado
// por el saldo restante de esa factura.
type CreditNoteUseCase struct {
	txRunner  TxRunner
	ledger    StockLedger
	noteRepo  repository.CreditNoteRepository // lecturas fuera de workflow
	auditRepo repository.AuditRepository      // atado al pool, no a la tx del workflow
	gate      *backup.Gate
	log       *logger.Logger
}

// NewCreditNoteUseCase construye el caso de uso.
func NewCreditNoteUseCase(
	txRunner TxRunner,
	ledger StockLedger,
	noteRepo repository.CreditNoteRepository,
	auditRepo repository.AuditRepository,
	gate *backup.Gate,
	log *logger.Logger,
) *CreditNoteUseCase {
	return &CreditNoteUseCase{txRunner: txRunner, ledger: ledger, noteRepo: noteRepo, auditRepo: auditRepo, gate: gate, log: log}
}

// Get devuelve un avoir con sus líneas.
func (uc *CreditNoteUseCase) Get(ctx context.Context, id string) (*entity.CreditNote, []*entity.CreditNoteLine, error) {
	note, err := uc.noteRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if note == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.noteRepo.GetLines(id)
	if err != nil {
		return nil, nil, err
	}
	return note, lines, nil
}

// List devuelve avoirs filtrados por cliente y/o año.
func (uc *CreditNoteUseCase) List(ctx context.Context, clientID string, year, limit, offset int) ([]*entity.CreditNote, error) {
	return uc.noteRepo.List(clientID, year, limit, offset)
}

// Create ejecuta el workflow completo. El bloqueo de la fila de la factura
// (FOR UPDATE) serializa avoirs concurrentes sobre la misma factura, así la
// cota Σ avoirs <= TTC de la factura no puede romperse por carrera.
func (uc *CreditNoteUseCase) Create(ctx context.Context, userID, username string, in dto.CreateCreditNoteRequest) (*entity.CreditNote, []entity.CreditNoteLine, error) {
	state := stateValidating

	date, err := parseDocumentDate(in.Date)
	if err != nil {
		return nil, nil, err
	}
	if in.InvoiceID == "" || in.Reason == "" || len(in.Items) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || !item.Quantity.IsPositive() {
			return nil, nil, domain.ErrInvalidInput
		}
	}

	done := uc.gate.BeginWorkflow()
	defer done()

	now := time.Now()
	note := &entity.CreditNote{
		ID:        uuid.New().String(),
		Year:      date.Year(),
		Date:      date,
		InvoiceID: in.InvoiceID,
		Reason:    in.Reason,
		CreatedBy: userID,
		CreatedAt: now,
	}
	var lines []entity.CreditNoteLine

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		invoice, err := r.Invoices.GetByIDForUpdate(in.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		note.ClientID = invoice.ClientID

		lastClosed, err := r.Closures.LastClosedYear()
		if err != nil {
			return err
		}
		if note.Year <= lastClosed {
			return domain.ErrYearClosed
		}

		invoiceLines, err := r.Invoices.GetLines(in.InvoiceID)
		if err != nil {
			return err
		}
		byProduct := make(map[string]*entity.InvoiceLine, len(invoiceLines))
		for _, l := range invoiceLines {
			byProduct[l.ProductID] = l
		}

		// Totales al precio unitario facturado, nunca al precio vigente.
		totalHT := decimal.Zero
		totalTVA := decimal.Zero
		var drafts []entity.CreditNoteLine
		products := make(map[string]*entity.Product, len(in.Items))
		for _, item := range in.Items {
			invLine, ok := byProduct[item.ProductID]
			if !ok {
				return domain.ErrInvalidInput
			}
			if item.Quantity.GreaterThan(invLine.Quantity) {
				return domain.ErrCreditNoteBounds
			}
			product, err := r.Products.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			products[product.ID] = product

			amount := item.Quantity.Mul(invLine.UnitPrice)
			totalHT = totalHT.Add(amount)
			totalTVA = totalTVA.Add(amount.Mul(product.TaxRate))
			drafts = append(drafts, entity.CreditNoteLine{
				ID:        uuid.New().String(),
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: invLine.UnitPrice,
				Amount:    amount,
			})
		}
		totalTTC := totalHT.Add(totalTVA)

		already, err := r.CreditNotes.SumByInvoice(in.InvoiceID)
		if err != nil {
			return err
		}
		remaining := invoice.TotalTTC.Sub(already)
		if totalTTC.GreaterThan(remaining) {
			uc.log.Warn().
				Str("invoice_id", in.InvoiceID).
				Str("requested", totalTTC.StringFixed(2)).
				Str("remaining", remaining.StringFixed(2)).
				Msg("avoir rechazado por cota de la factura")
			return domain.ErrCreditNoteBounds
		}
		state = stateBoundsChecked

		number, err := r.CreditNotes.NextNumber(note.Year)
		if err != nil {
			return err
		}
		note.Number = number
		note.TotalHT = totalHT
		note.TotalTVA = totalTVA
		note.TotalTTC = totalTTC
		if err := r.CreditNotes.Create(note); err != nil {
			return err
		}
		for i := range drafts {
			drafts[i].CreditNoteID = note.ID
			if err := r.CreditNotes.CreateLine(&drafts[i]); err != nil {
				return err
			}
		}
		lines = drafts

		// La mercancía devuelta vuelve al pool del dueño.
		for i := range drafts {
			if err := uc.ledger.RecordInTx(r.Movements, r.Products, products[drafts[i].ProductID],
				entity.MovementCreditNote, drafts[i].Quantity, "", number, note.ID, userID, now); err != nil {
				return err
			}
		}

		if already.Add(totalTTC).Equal(invoice.TotalTTC) {
			if err := r.Invoices.UpdateStatus(invoice.ID, entity.InvoiceStatusSettled); err != nil {
				return err
			}
		}

		return r.Audit.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			UserID:    userID,
			Username:  username,
			Action:    "CREDIT_NOTE_CREATED",
			Details:   number + " sobre " + invoice.Number + " TTC " + totalTTC.StringFixed(2),
			EntityRef: note.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		uc.log.Info().
			Str("invoice_id", in.InvoiceID).
			Str("state", state).
			Err(err).
			Msg("workflow de avoir abortado")
		// La entrada de abort se escribe fuera de la tx revertida.
		if auditErr := uc.auditRepo.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			UserID:    userID,
			Username:  username,
			Action:    "CREDIT_NOTE_ABORTED",
			Details:   state + ": " + err.Error(),
			EntityRef: in.InvoiceID,
			CreatedAt: time.Now(),
		}); auditErr != nil {
			uc.log.Error().Err(auditErr).Msg("no se pudo registrar el abort en auditoría")
		}
		return nil, nil, err
	}

	uc.log.Info().
		Str("number", note.Number).
		Str("total_ttc", note.TotalTTC.StringFixed(2)).
		Msg("avoir creado")
	return note, lines, nil
}
