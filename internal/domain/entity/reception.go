package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reception registra la llegada de producto desde fábrica. Destination decide
// el impacto en stock: TO_STOCK genera un movimiento de entrada, TO_SITE es
// consumo directo en obra y solo queda para reportes.
type Reception struct {
	ID                string
	Number            string
	Year              int
	Date              time.Time
	Driver            string
	TractorPlate      string
	TrailerPlate      string
	Carrier           string
	Destination       string
	SiteAddress       string
	ProductID         string
	QuantityAnnounced decimal.Decimal
	QuantityReceived  decimal.Decimal
	GapReason         string
	CreatedBy         string
	CreatedAt         time.Time
}

// Gap diferencia entre lo anunciado y lo recibido.
func (r *Reception) Gap() decimal.Decimal {
	return r.QuantityReceived.Sub(r.QuantityAnnounced)
}
