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

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, COALESCE(code, ''), name, address, rc, nis, nif, tax_article,
		COALESCE(email, ''), COALESCE(phone_1, ''), COALESCE(phone_2, ''),
		COALESCE(bank_account, ''), COALESCE(bank, ''), COALESCE(category, ''),
		credit_limit, carry_forward, active, COALESCE(created_by::text, ''), created_at`

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	query := `
		INSERT INTO clients (id, code, name, address, rc, nis, nif, tax_article, email,
			phone_1, phone_2, bank_account, bank, category, credit_limit, carry_forward,
			active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, nullIfEmpty(client.Code), client.Name, client.Address, client.RC, client.NIS,
		client.NIF, client.TaxArticle, nullIfEmpty(client.Email), nullIfEmpty(client.Phone1),
		nullIfEmpty(client.Phone2), nullIfEmpty(client.BankAccount), nullIfEmpty(client.Bank),
		nullIfEmpty(client.Category), client.CreditLimit, client.CarryForward,
		client.Active, nullIfEmpty(client.CreatedBy), client.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// List devuelve clientes ordenados por nombre; limit 0 trae todos.
func (r *ClientRepo) List(activeOnly bool, limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []*entity.Client
	for rows.Next() {
		c, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Update modifica los datos del cliente (el código y el carry-forward no se tocan por esta vía).
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, address = $3, rc = $4, nis = $5, nif = $6,
			tax_article = $7, email = $8, phone_1 = $9, phone_2 = $10, bank_account = $11,
			bank = $12, category = $13, credit_limit = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Address, client.RC, client.NIS, client.NIF,
		client.TaxArticle, nullIfEmpty(client.Email), nullIfEmpty(client.Phone1),
		nullIfEmpty(client.Phone2), nullIfEmpty(client.BankAccount), nullIfEmpty(client.Bank),
		nullIfEmpty(client.Category), client.CreditLimit,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Archive baja lógica: el histórico del cliente queda intacto.
func (r *ClientRepo) Archive(id string) error {
	_, err := r.q.Exec(context.Background(), `UPDATE clients SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("archive client: %w", err)
	}
	return nil
}

// UpdateCarryForward fija el saldo de apertura (report N-1) tras el cierre anual.
func (r *ClientRepo) UpdateCarryForward(id string, amount decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(), `UPDATE clients SET carry_forward = $2 WHERE id = $1`, id, amount)
	if err != nil {
		return fmt.Errorf("update carry forward: %w", err)
	}
	return nil
}

func (r *ClientRepo) scanOne(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.Address, &c.RC, &c.NIS, &c.NIF, &c.TaxArticle,
		&c.Email, &c.Phone1, &c.Phone2, &c.BankAccount, &c.Bank, &c.Category,
		&c.CreditLimit, &c.CarryForward, &c.Active, &c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
