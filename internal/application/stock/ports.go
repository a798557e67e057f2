package stock

import (
	"context"

	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// Repos repositorios atados a la transacción de un workflow de stock.
type Repos struct {
	Movements  repository.StockMovementRepository
	Products   repository.ProductRepository
	Receptions repository.ReceptionRepository
	Audit      repository.AuditRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
