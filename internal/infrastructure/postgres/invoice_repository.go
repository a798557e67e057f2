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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, number, year, date, client_id, total_ht, total_tva, total_ttc,
		status, COALESCE(driver, ''), COALESCE(tractor_plate, ''), COALESCE(trailer_plate, ''),
		COALESCE(carrier, ''), closure_year, COALESCE(created_by::text, ''), created_at`

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL
// (usable con pool o tx). Las facturas son insert-then-immutable salvo el estado.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de una factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, number, year, date, client_id, total_ht, total_tva, total_ttc,
			status, driver, tractor_plate, trailer_plate, carrier, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, invoice.Year, invoice.Date, invoice.ClientID,
		invoice.TotalHT, invoice.TotalTVA, invoice.TotalTTC, invoice.Status,
		nullIfEmpty(invoice.Transport.Driver), nullIfEmpty(invoice.Transport.TractorPlate),
		nullIfEmpty(invoice.Transport.TrailerPlate), nullIfEmpty(invoice.Transport.Carrier),
		nullIfEmpty(invoice.CreatedBy), invoice.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de factura.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (id, invoice_id, product_id, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.ProductID, line.Quantity, line.UnitPrice, line.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.getOne(query, id)
}

// GetByIDForUpdate bloquea la fila de la factura (serializa avoirs concurrentes).
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// GetLines devuelve las líneas de la factura.
func (r *InvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, product_id, quantity, unit_price, amount
		FROM invoice_lines WHERE invoice_id = $1`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// List devuelve facturas filtradas por cliente y/o año, las más recientes primero.
func (r *InvoiceRepo) List(clientID string, year int, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []any{}
	if clientID != "" {
		args = append(args, clientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if year > 0 {
		args = append(args, year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	query += ` ORDER BY date DESC, number DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateStatus cambia el flag de estado de la factura.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(), `UPDATE invoices SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// NextNumber reserva el siguiente consecutivo FAC-<año>-<n>. Debe llamarse
// dentro de la tx del workflow: si esta aborta, el consecutivo no se consume.
func (r *InvoiceRepo) NextNumber(year int) (string, error) {
	return nextNumber(r.q, "invoices", "FAC", year)
}

// SumForBalance agrega TTC de facturas del cliente con año > afterYear y fecha <= asOf.
func (r *InvoiceRepo) SumForBalance(clientID string, afterYear int, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_ttc), 0)
		FROM invoices WHERE client_id = $1 AND year > $2 AND date <= $3`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, clientID, afterYear, asOf).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum invoices: %w", err)
	}
	return sum, nil
}

// StampClosure marca como archivadas (closure_year) las facturas vivas con año <= year.
func (r *InvoiceRepo) StampClosure(year int) (int64, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET closure_year = $1 WHERE closure_year IS NULL AND year <= $1`, year)
	if err != nil {
		return 0, fmt.Errorf("stamp invoices closure: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *InvoiceRepo) getOne(query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Year, &inv.Date, &inv.ClientID,
		&inv.TotalHT, &inv.TotalTVA, &inv.TotalTTC, &inv.Status,
		&inv.Transport.Driver, &inv.Transport.TractorPlate, &inv.Transport.TrailerPlate,
		&inv.Transport.Carrier, &inv.ClosureYear, &inv.CreatedBy, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
