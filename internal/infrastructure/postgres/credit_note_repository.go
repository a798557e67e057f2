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

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

const creditNoteColumns = `id, number, year, date, invoice_id, client_id, reason,
		total_ht, total_tva, total_ttc, closure_year, COALESCE(created_by::text, ''), created_at`

// CreditNoteRepo implementación del puerto CreditNoteRepository sobre PostgreSQL (usable con pool o tx).
type CreditNoteRepo struct {
	q Querier
}

// NewCreditNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditNoteRepository(q Querier) *CreditNoteRepo {
	return &CreditNoteRepo{q: q}
}

// Create persiste la cabecera de un avoir.
func (r *CreditNoteRepo) Create(note *entity.CreditNote) error {
	query := `
		INSERT INTO credit_notes (id, number, year, date, invoice_id, client_id, reason,
			total_ht, total_tva, total_ttc, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		note.ID, note.Number, note.Year, note.Date, note.InvoiceID, note.ClientID,
		note.Reason, note.TotalHT, note.TotalTVA, note.TotalTTC,
		nullIfEmpty(note.CreatedBy), note.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert credit note: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de avoir.
func (r *CreditNoteRepo) CreateLine(line *entity.CreditNoteLine) error {
	query := `
		INSERT INTO credit_note_lines (id, credit_note_id, product_id, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.CreditNoteID, line.ProductID, line.Quantity, line.UnitPrice, line.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert credit note line: %w", err)
	}
	return nil
}

// GetByID obtiene un avoir por ID.
func (r *CreditNoteRepo) GetByID(id string) (*entity.CreditNote, error) {
	query := `SELECT ` + creditNoteColumns + ` FROM credit_notes WHERE id = $1`
	note, err := scanCreditNote(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit note: %w", err)
	}
	return note, nil
}

// GetLines devuelve las líneas del avoir.
func (r *CreditNoteRepo) GetLines(creditNoteID string) ([]*entity.CreditNoteLine, error) {
	query := `
		SELECT id, credit_note_id, product_id, quantity, unit_price, amount
		FROM credit_note_lines WHERE credit_note_id = $1`
	rows, err := r.q.Query(context.Background(), query, creditNoteID)
	if err != nil {
		return nil, fmt.Errorf("get credit note lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.CreditNoteLine
	for rows.Next() {
		var l entity.CreditNoteLine
		if err := rows.Scan(&l.ID, &l.CreditNoteID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan credit note line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListByInvoice devuelve los avoirs de una factura.
func (r *CreditNoteRepo) ListByInvoice(invoiceID string) ([]*entity.CreditNote, error) {
	query := `SELECT ` + creditNoteColumns + ` FROM credit_notes WHERE invoice_id = $1 ORDER BY date`
	return r.listRows(query, invoiceID)
}

// List devuelve avoirs filtrados por cliente y/o año, los más recientes primero.
func (r *CreditNoteRepo) List(clientID string, year int, limit, offset int) ([]*entity.CreditNote, error) {
	query := `SELECT ` + creditNoteColumns + ` FROM credit_notes WHERE 1=1`
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
	return r.listRows(query, args...)
}

// NextNumber reserva el siguiente consecutivo AVR-<año>-<n>.
func (r *CreditNoteRepo) NextNumber(year int) (string, error) {
	return nextNumber(r.q, "credit_notes", "AVR", year)
}

// SumByInvoice agrega TTC de los avoirs existentes de una factura.
func (r *CreditNoteRepo) SumByInvoice(invoiceID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_ttc), 0) FROM credit_notes WHERE invoice_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, invoiceID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum credit notes by invoice: %w", err)
	}
	return sum, nil
}

// SumForBalance agrega TTC de avoirs del cliente con año > afterYear y fecha <= asOf.
func (r *CreditNoteRepo) SumForBalance(clientID string, afterYear int, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_ttc), 0)
		FROM credit_notes WHERE client_id = $1 AND year > $2 AND date <= $3`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, clientID, afterYear, asOf).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum credit notes: %w", err)
	}
	return sum, nil
}

// StampClosure marca como archivados (closure_year) los avoirs vivos con año <= year.
func (r *CreditNoteRepo) StampClosure(year int) (int64, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE credit_notes SET closure_year = $1 WHERE closure_year IS NULL AND year <= $1`, year)
	if err != nil {
		return 0, fmt.Errorf("stamp credit notes closure: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *CreditNoteRepo) listRows(query string, args ...any) ([]*entity.CreditNote, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list credit notes: %w", err)
	}
	defer rows.Close()

	var notes []*entity.CreditNote
	for rows.Next() {
		note, err := scanCreditNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func scanCreditNote(row pgx.Row) (*entity.CreditNote, error) {
	var n entity.CreditNote
	err := row.Scan(
		&n.ID, &n.Number, &n.Year, &n.Date, &n.InvoiceID, &n.ClientID, &n.Reason,
		&n.TotalHT, &n.TotalTVA, &n.TotalTTC, &n.ClosureYear, &n.CreatedBy, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
