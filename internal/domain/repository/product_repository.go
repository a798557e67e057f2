package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(activeOnly bool, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// ListChildren devuelve las variantes de precio que delegan su stock en parentID.
	ListChildren(parentID string) ([]*entity.Product, error)
	// GetStockForUpdate lee current_stock bloqueando la fila (SELECT FOR UPDATE).
	GetStockForUpdate(id string) (decimal.Decimal, error)
	UpdateStock(id string, quantity decimal.Decimal) error
	UpdateInitialStock(id string, quantity decimal.Decimal) error
	// UpdatePrice cambia el precio dejando rastro en price_history.
	UpdatePrice(id string, newPrice decimal.Decimal, referenceNote, userID string) error
}
