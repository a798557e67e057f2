package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de venta del cemento.
const (
	UnitBag25 = "bag-25kg"
	UnitBag50 = "bag-50kg"
	UnitBulk  = "bulk"
)

// Product representa un producto del catálogo. Un producto con ParentID es una
// variante de precio: conserva su propio precio pero no su propio stock, todas
// las operaciones de stock se redirigen al pool del padre.
type Product struct {
	ID           string
	Code         string
	Name         string
	Unit         string // bag-25kg, bag-50kg, bulk
	Price        decimal.Decimal // precio de venta unitario
	CostPrice    decimal.Decimal
	TaxRate      decimal.Decimal // TVA: 0.19 = 19%
	InitialStock decimal.Decimal // stock de apertura del periodo en curso
	CurrentStock decimal.Decimal // materializado; siempre igual al replay de movimientos
	Category     string
	ParentID     *string // dueño del pool de stock si es variante de precio
	Active       bool
	CreatedBy    string
	CreatedAt    time.Time
}

// IsChild indica si el producto delega su stock en un padre.
func (p *Product) IsChild() bool {
	return p.ParentID != nil && *p.ParentID != ""
}
