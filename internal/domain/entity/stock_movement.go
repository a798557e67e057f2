package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock. El nivel actual de un producto es siempre la
// suma de sus deltas (más el stock de apertura), recuperable por replay.
const (
	MovementReception  = "RECEPTION"   // entrada por recepción de fábrica
	MovementInvoiceOut = "INVOICE_OUT" // salida por facturación
	MovementCreditNote = "CREDIT_NOTE_RETURN"
	MovementManual     = "MANUAL_ADJUST" // corrección manual privilegiada
)

// Destino de una recepción. DestinationSite (directo a obra) no altera el
// stock agregado pero se conserva para reportes.
const (
	DestinationStock = "TO_STOCK"
	DestinationSite  = "TO_SITE"
)

// StockMovement es una entrada append-only del libro de stock. ProductID es
// siempre el dueño del pool (post resolución padre/hijo); Reference conserva
// la variante original para trazabilidad.
type StockMovement struct {
	ID          string
	ProductID   string
	Kind        string
	Quantity    decimal.Decimal // delta con signo
	Destination string          // solo recepciones
	Reference   string          // documento de origen (número de factura, recepción, etc.)
	DocumentID  string
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	CreatedBy   string
	CreatedAt   time.Time
}
