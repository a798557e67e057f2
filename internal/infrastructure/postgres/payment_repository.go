package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, number, date, client_id, amount, mode, COALESCE(reference, ''),
		COALESCE(bank, ''), closure_year, COALESCE(created_by::text, ''), created_at`

// PaymentRepo implementación del puerto PaymentRepository sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago.
func (r *PaymentRepo) Create(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, number, date, client_id, amount, mode, reference, bank, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.Number, payment.Date, payment.ClientID, payment.Amount,
		payment.Mode, nullIfEmpty(payment.Reference), nullIfEmpty(payment.Bank),
		nullIfEmpty(payment.CreatedBy), payment.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por ID.
func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List devuelve pagos filtrados por cliente y/o año, los más recientes primero.
func (r *PaymentRepo) List(clientID string, year int, limit, offset int) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []any{}
	if clientID != "" {
		args = append(args, clientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if year > 0 {
		args = append(args, year)
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM date) = $%d", len(args))
	}
	query += ` ORDER BY date DESC, number DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// NextNumber reserva el siguiente consecutivo PAY-<año>-<n>.
func (r *PaymentRepo) NextNumber(year int) (string, error) {
	return nextNumber(r.q, "payments", "PAY", year)
}

// SumForBalance agrega pagos del cliente posteriores al último cierre y hasta asOf.
func (r *PaymentRepo) SumForBalance(clientID string, afterYear int, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments WHERE client_id = $1 AND EXTRACT(YEAR FROM date) > $2 AND date <= $3`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, clientID, afterYear, asOf).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// StampClosure marca como archivados (closure_year) los pagos vivos con fecha dentro de year o antes.
func (r *PaymentRepo) StampClosure(year int) (int64, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE payments SET closure_year = $1 WHERE closure_year IS NULL AND EXTRACT(YEAR FROM date) <= $1`, year)
	if err != nil {
		return 0, fmt.Errorf("stamp payments closure: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID, &p.Number, &p.Date, &p.ClientID, &p.Amount, &p.Mode,
		&p.Reference, &p.Bank, &p.ClosureYear, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
