package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, COALESCE(code, ''), name, unit, price, cost_price, tax_rate,
		initial_stock, current_stock, COALESCE(category, ''), parent_id, active,
		COALESCE(created_by::text, ''), created_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto o variante de precio.
func (r *ProductRepo) Create(product *entity.Product) error {
	var parentID any
	if product.ParentID != nil {
		parentID = *product.ParentID
	}
	query := `
		INSERT INTO products (id, code, name, unit, price, cost_price, tax_rate,
			initial_stock, current_stock, category, parent_id, active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, nullIfEmpty(product.Code), product.Name, product.Unit, product.Price,
		product.CostPrice, product.TaxRate, product.InitialStock, product.CurrentStock,
		nullIfEmpty(product.Category), parentID, product.Active,
		nullIfEmpty(product.CreatedBy), product.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List devuelve productos ordenados por código; limit 0 trae todos.
func (r *ProductRepo) List(activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY code`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListChildren devuelve las variantes de precio que delegan su stock en parentID.
func (r *ProductRepo) ListChildren(parentID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE parent_id = $1 ORDER BY code`
	rows, err := r.q.Query(context.Background(), query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update modifica los datos del producto (el stock no se toca por esta vía).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, unit = $3, cost_price = $4, tax_rate = $5,
			category = $6, active = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Unit, product.CostPrice, product.TaxRate,
		nullIfEmpty(product.Category), product.Active,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// GetStockForUpdate lee current_stock bloqueando la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetStockForUpdate(id string) (decimal.Decimal, error) {
	query := `
		SELECT current_stock
		FROM products WHERE id = $1
		FOR UPDATE`
	var stock decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, id).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("get stock for update: %w", err)
	}
	return stock, nil
}

// UpdateStock fija el nivel materializado del pool.
func (r *ProductRepo) UpdateStock(id string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(), `UPDATE products SET current_stock = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// UpdateInitialStock fija el stock de apertura del periodo en curso.
func (r *ProductRepo) UpdateInitialStock(id string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(), `UPDATE products SET initial_stock = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update initial stock: %w", err)
	}
	return nil
}

// UpdatePrice cambia el precio dejando rastro en price_history.
func (r *ProductRepo) UpdatePrice(id string, newPrice decimal.Decimal, referenceNote, userID string) error {
	// CTE para que el rastro y el cambio de precio sean un solo statement.
	query := `
		WITH trace AS (
			INSERT INTO price_history (id, product_id, old_price, new_price, reference_note, created_by, created_at)
			SELECT gen_random_uuid(), id, price, $2, $3, $4, now()
			FROM products WHERE id = $1
		)
		UPDATE products SET price = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, newPrice, nullIfEmpty(referenceNote), nullIfEmpty(userID))
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Unit, &p.Price, &p.CostPrice, &p.TaxRate,
		&p.InitialStock, &p.CurrentStock, &p.Category, &p.ParentID, &p.Active,
		&p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
