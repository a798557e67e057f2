package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura. Inmutable tras su creación salvo por el flag de
// estado, que pasa a SETTLED_BY_CREDIT_NOTE cuando los avoirs la cubren por completo.
const (
	InvoiceStatusOpen    = "OPEN"
	InvoiceStatusSettled = "SETTLED_BY_CREDIT_NOTE"
)

// Invoice representa la cabecera de una factura de venta.
type Invoice struct {
	ID          string
	Number      string // FAC-<año>-<secuencia>
	Year        int
	Date        time.Time
	ClientID    string
	TotalHT     decimal.Decimal
	TotalTVA    decimal.Decimal
	TotalTTC    decimal.Decimal
	Status      string
	Transport   Transport
	ClosureYear *int // año de cierre que la archivó; nil = periodo en curso
	CreatedBy   string
	CreatedAt   time.Time
}

// Transport metadatos de transporte de la entrega.
type Transport struct {
	Driver       string
	TractorPlate string
	TrailerPlate string
	Carrier      string
}

// InvoiceLine línea de detalle de una factura.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal // HT = Quantity * UnitPrice
}
