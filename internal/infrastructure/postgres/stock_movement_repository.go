package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, kind, quantity, COALESCE(destination, ''),
		COALESCE(reference, ''), COALESCE(document_id::text, ''), stock_before, stock_after,
		COALESCE(created_by::text, ''), created_at`

// StockMovementRepo implementación del puerto StockMovementRepository sobre
// PostgreSQL (usable con pool o tx). La tabla es append-only.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create añade una entrada al libro de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, kind, quantity, destination, reference,
			document_id, stock_before, stock_after, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Kind, movement.Quantity,
		nullIfEmpty(movement.Destination), nullIfEmpty(movement.Reference),
		nullIfEmpty(movement.DocumentID), movement.StockBefore, movement.StockAfter,
		nullIfEmpty(movement.CreatedBy), movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct devuelve movimientos del producto, los más recientes primero.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return r.list(query, args...)
}

// ListByProductUntil devuelve todo el histórico hasta asOf en orden temporal (para replay).
func (r *StockMovementRepo) ListByProductUntil(productID string, asOf time.Time) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE product_id = $1 AND created_at <= $2
		ORDER BY created_at`
	return r.list(query, productID, asOf)
}

// SumDeltas agrega los deltas del producto hasta asOf; nil = hasta ahora.
func (r *StockMovementRepo) SumDeltas(productID string, asOf *time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	if asOf != nil {
		query += ` AND created_at <= $2`
		args = append(args, *asOf)
	}
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}

// ExistsForDocument indica si ya hay un movimiento de ese tipo para el documento.
func (r *StockMovementRepo) ExistsForDocument(documentID, kind string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM stock_movements WHERE document_id = $1 AND kind = $2)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, documentID, kind).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists for document: %w", err)
	}
	return exists, nil
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Kind, &m.Quantity, &m.Destination, &m.Reference,
			&m.DocumentID, &m.StockBefore, &m.StockAfter, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		movements = append(movements, &m)
	}
	return movements, rows.Err()
}
