package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// Las facturas son insert-then-immutable salvo por el flag de estado.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila de la factura (serializa avoirs concurrentes sobre la misma factura).
	GetByIDForUpdate(id string) (*entity.Invoice, error)
	GetLines(invoiceID string) ([]*entity.InvoiceLine, error)
	List(clientID string, year int, limit, offset int) ([]*entity.Invoice, error)
	UpdateStatus(id, status string) error
	// NextNumber reserva el siguiente consecutivo FAC-<año>-<n>.
	NextNumber(year int) (string, error)
	// SumForBalance agrega TTC de facturas del cliente con año > afterYear y fecha <= asOf.
	SumForBalance(clientID string, afterYear int, asOf time.Time) (decimal.Decimal, error)
	// StampClosure marca como archivadas (closure_year) las facturas vivas con año <= year.
	StampClosure(year int) (int64, error)
}
