package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.ClosureRepository = (*ClosureRepo)(nil)

const closureColumns = `id, year, closed_at, stocks_snapshot, balances_snapshot,
		COALESCE(created_by::text, ''), created_at`

// ClosureRepo implementación del puerto ClosureRepository sobre PostgreSQL (usable con pool o tx).
type ClosureRepo struct {
	q Querier
}

// NewClosureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClosureRepository(q Querier) *ClosureRepo {
	return &ClosureRepo{q: q}
}

// Create persiste un cierre anual. El UNIQUE de year garantiza un cierre por año.
func (r *ClosureRepo) Create(closure *entity.Closure) error {
	query := `
		INSERT INTO closures (id, year, closed_at, stocks_snapshot, balances_snapshot, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		closure.ID, closure.Year, closure.ClosedAt, closure.StocksSnapshot,
		closure.BalancesSnapshot, nullIfEmpty(closure.CreatedBy), closure.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrYearClosed
		}
		return fmt.Errorf("insert closure: %w", err)
	}
	return nil
}

// GetByYear obtiene el cierre de un año; nil si el año no está cerrado.
func (r *ClosureRepo) GetByYear(year int) (*entity.Closure, error) {
	query := `SELECT ` + closureColumns + ` FROM closures WHERE year = $1`
	c, err := scanClosure(r.q.QueryRow(context.Background(), query, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get closure: %w", err)
	}
	return c, nil
}

// LastClosedYear devuelve el último año cerrado, o 0 si nunca se cerró.
func (r *ClosureRepo) LastClosedYear() (int, error) {
	var year int
	err := r.q.QueryRow(context.Background(), `SELECT COALESCE(MAX(year), 0) FROM closures`).Scan(&year)
	if err != nil {
		return 0, fmt.Errorf("last closed year: %w", err)
	}
	return year, nil
}

// List devuelve los cierres, el más reciente primero.
func (r *ClosureRepo) List(limit, offset int) ([]*entity.Closure, error) {
	query := `SELECT ` + closureColumns + ` FROM closures ORDER BY year DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list closures: %w", err)
	}
	defer rows.Close()

	var closures []*entity.Closure
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, fmt.Errorf("scan closure: %w", err)
		}
		closures = append(closures, c)
	}
	return closures, rows.Err()
}

func scanClosure(row pgx.Row) (*entity.Closure, error) {
	var c entity.Closure
	err := row.Scan(
		&c.ID, &c.Year, &c.ClosedAt, &c.StocksSnapshot, &c.BalancesSnapshot,
		&c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
