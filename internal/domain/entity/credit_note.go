package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditNote (avoir) reduce la deuda de un cliente, acotada por el saldo
// restante de la factura de origen: TotalTTC <= factura.TotalTTC - Σ avoirs previos.
type CreditNote struct {
	ID          string
	Number      string // AVR-<año>-<secuencia>
	Year        int
	Date        time.Time
	InvoiceID   string // factura de origen, obligatoria
	ClientID    string
	Reason      string // motivo, obligatorio
	TotalHT     decimal.Decimal
	TotalTVA    decimal.Decimal
	TotalTTC    decimal.Decimal
	ClosureYear *int
	CreatedBy   string
	CreatedAt   time.Time
}

// CreditNoteLine cantidad devuelta de un producto de la factura de origen.
type CreditNoteLine struct {
	ID           string
	CreditNoteID string
	ProductID    string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Amount       decimal.Decimal // HT
}
