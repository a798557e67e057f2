package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/application/report"
	"github.com/jhoicas/Comercial-api/internal/application/stock"
)

var _ stock.TxRunner = (*StockTxRunner)(nil)
var _ billing.TxRunner = (*BillingTxRunner)(nil)
var _ report.SnapshotRunner = (*SnapshotRunner)(nil)

// StockTxRunner ejecuta workflows de stock dentro de una transacción PostgreSQL.
type StockTxRunner struct {
	pool *pgxpool.Pool
}

// NewStockTxRunner construye el runner con el pool.
func NewStockTxRunner(pool *pgxpool.Pool) *StockTxRunner {
	return &StockTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *StockTxRunner) Run(ctx context.Context, fn func(repos stock.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := stock.Repos{
		Movements:  NewStockMovementRepository(tx),
		Products:   NewProductRepository(tx),
		Receptions: NewReceptionRepository(tx),
		Audit:      NewAuditRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// BillingTxRunner ejecuta workflows de facturación (facturas, avoirs, pagos,
// cierre anual) dentro de una transacción PostgreSQL.
type BillingTxRunner struct {
	pool *pgxpool.Pool
}

// NewBillingTxRunner construye el runner con el pool.
func NewBillingTxRunner(pool *pgxpool.Pool) *BillingTxRunner {
	return &BillingTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *BillingTxRunner) Run(ctx context.Context, fn func(repos billing.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := billing.Repos{
		Clients:     NewClientRepository(tx),
		Products:    NewProductRepository(tx),
		Invoices:    NewInvoiceRepository(tx),
		CreditNotes: NewCreditNoteRepository(tx),
		Payments:    NewPaymentRepository(tx),
		Movements:   NewStockMovementRepository(tx),
		Closures:    NewClosureRepository(tx),
		Audit:       NewAuditRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SnapshotRunner ejecuta reportes dentro de una transacción REPEATABLE READ de
// solo lectura: todas las consultas ven la misma instantánea.
type SnapshotRunner struct {
	pool *pgxpool.Pool
}

// NewSnapshotRunner construye el runner con el pool.
func NewSnapshotRunner(pool *pgxpool.Pool) *SnapshotRunner {
	return &SnapshotRunner{pool: pool}
}

// RunSnapshot abre la tx de solo lectura, ejecuta fn y la cierra.
func (r *SnapshotRunner) RunSnapshot(ctx context.Context, fn func(repos report.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := report.Repos{
		Clients:     NewClientRepository(tx),
		Products:    NewProductRepository(tx),
		Invoices:    NewInvoiceRepository(tx),
		CreditNotes: NewCreditNoteRepository(tx),
		Payments:    NewPaymentRepository(tx),
		Movements:   NewStockMovementRepository(tx),
		Closures:    NewClosureRepository(tx),
		Analytics:   NewAnalyticsRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot transaction: %w", err)
	}
	return nil
}
