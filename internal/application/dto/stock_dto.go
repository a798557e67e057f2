package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest movimiento de stock manual o de recepción.
// Quantity lleva signo: negativo para salidas.
type RegisterMovementRequest struct {
	ProductID   string          `json:"product_id"`
	Kind        string          `json:"kind"` // RECEPTION, MANUAL_ADJUST
	Quantity    decimal.Decimal `json:"quantity"`
	Destination string          `json:"destination"` // solo recepciones
	Reference   string          `json:"reference"`
}

// RegisterReceptionRequest llegada de producto desde fábrica.
type RegisterReceptionRequest struct {
	Date              string          `json:"date"`
	Driver            string          `json:"driver"`
	TractorPlate      string          `json:"tractor_plate"`
	TrailerPlate      string          `json:"trailer_plate"`
	Carrier           string          `json:"carrier"`
	Destination       string          `json:"destination"` // TO_STOCK o TO_SITE
	SiteAddress       string          `json:"site_address"`
	ProductID         string          `json:"product_id"`
	QuantityAnnounced decimal.Decimal `json:"quantity_announced"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
	GapReason         string          `json:"gap_reason"`
}

// StockResponse nivel actual de stock de un producto (post resolución padre/hijo).
type StockResponse struct {
	ProductID    string          `json:"product_id"`
	OwnerID      string          `json:"owner_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// RepairStockResponse estadísticas de la reparación de stock.
type RepairStockResponse struct {
	ReceptionsFixed int `json:"receptions_fixed"`
	ProductsUpdated int `json:"products_updated"`
}
