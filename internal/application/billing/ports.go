package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// Repos repositorios atados a la transacción de un workflow de facturación.
type Repos struct {
	Clients     repository.ClientRepository
	Products    repository.ProductRepository
	Invoices    repository.InvoiceRepository
	CreditNotes repository.CreditNoteRepository
	Payments    repository.PaymentRepository
	Movements   repository.StockMovementRepository
	Closures    repository.ClosureRepository
	Audit       repository.AuditRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Todo documento comercial se confirma o se
// revierte en bloque: nunca queda una factura sin sus movimientos de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// StockLedger registra un movimiento de stock dentro de la transacción del
// caller, con resolución padre/hijo y bloqueo de fila incluidos.
type StockLedger interface {
	RecordInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		product *entity.Product,
		kind string,
		quantity decimal.Decimal,
		destination, reference, documentID, userID string,
		now time.Time,
	) error
}
