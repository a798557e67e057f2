package report

import (
	"context"

	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// Repos repositorios atados a la instantánea de un reporte.
type Repos struct {
	Clients     repository.ClientRepository
	Products    repository.ProductRepository
	Invoices    repository.InvoiceRepository
	CreditNotes repository.CreditNoteRepository
	Payments    repository.PaymentRepository
	Movements   repository.StockMovementRepository
	Closures    repository.ClosureRepository
	Analytics   repository.AnalyticsRepository
}

// SnapshotRunner ejecuta la función dentro de una transacción REPEATABLE READ
// de solo lectura: todas las consultas del reporte ven la misma instantánea.
type SnapshotRunner interface {
	RunSnapshot(ctx context.Context, fn func(r Repos) error) error
}
