package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de stock.
// La tabla es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListByProductUntil devuelve todo el histórico del producto hasta asOf en orden temporal (para replay).
	ListByProductUntil(productID string, asOf time.Time) ([]*entity.StockMovement, error)
	// SumDeltas agrega los deltas del producto hasta asOf; nil = hasta ahora.
	SumDeltas(productID string, asOf *time.Time) (decimal.Decimal, error)
	// ExistsForDocument indica si ya hay un movimiento de ese tipo para el documento (reparación).
	ExistsForDocument(documentID, kind string) (bool, error)
}
