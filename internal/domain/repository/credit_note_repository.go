package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// CreditNoteRepository define el puerto de persistencia para CreditNote (avoir).
type CreditNoteRepository interface {
	Create(note *entity.CreditNote) error
	CreateLine(line *entity.CreditNoteLine) error
	GetByID(id string) (*entity.CreditNote, error)
	GetLines(creditNoteID string) ([]*entity.CreditNoteLine, error)
	ListByInvoice(invoiceID string) ([]*entity.CreditNote, error)
	List(clientID string, year int, limit, offset int) ([]*entity.CreditNote, error)
	NextNumber(year int) (string, error)
	// SumByInvoice agrega TTC de los avoirs existentes de una factura (para el control de límites).
	SumByInvoice(invoiceID string) (decimal.Decimal, error)
	SumForBalance(clientID string, afterYear int, asOf time.Time) (decimal.Decimal, error)
	StampClosure(year int) (int64, error)
}
