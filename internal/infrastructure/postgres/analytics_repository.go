package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de agregación para reportes sobre PostgreSQL.
// Solo lectura; pensado para correr dentro de la tx de instantánea.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// DailySaleLines devuelve las líneas facturadas del día, unidas a cliente y producto.
func (r *AnalyticsRepo) DailySaleLines(day time.Time) ([]*repository.DailySaleLineRow, error) {
	query := `
		SELECT i.number, c.name, p.id, COALESCE(p.code, ''), p.name,
			il.quantity, il.unit_price, il.amount, p.tax_rate
		FROM invoice_lines il
		JOIN invoices i ON i.id = il.invoice_id
		JOIN clients c ON c.id = i.client_id
		JOIN products p ON p.id = il.product_id
		WHERE i.date = $1
		ORDER BY i.number`
	rows, err := r.q.Query(context.Background(), query, day)
	if err != nil {
		return nil, fmt.Errorf("daily sale lines: %w", err)
	}
	defer rows.Close()

	var result []*repository.DailySaleLineRow
	for rows.Next() {
		var l repository.DailySaleLineRow
		if err := rows.Scan(&l.InvoiceNumber, &l.ClientName, &l.ProductID, &l.ProductCode,
			&l.ProductName, &l.Quantity, &l.UnitPrice, &l.Amount, &l.TaxRate); err != nil {
			return nil, fmt.Errorf("scan daily sale line: %w", err)
		}
		result = append(result, &l)
	}
	return result, rows.Err()
}

// DailyProductStats devuelve por producto la cantidad vendida en el día y la
// acumulada desde el 1 de enero de ese año.
func (r *AnalyticsRepo) DailyProductStats(day time.Time) ([]*repository.DailyProductStatRow, error) {
	query := `
		SELECT p.id, COALESCE(p.code, ''), p.name,
			COALESCE(SUM(il.quantity) FILTER (WHERE i.date = $1), 0),
			COALESCE(SUM(il.quantity), 0)
		FROM invoice_lines il
		JOIN invoices i ON i.id = il.invoice_id
		JOIN products p ON p.id = il.product_id
		WHERE i.year = $2 AND i.date <= $1
		GROUP BY p.id, p.code, p.name
		ORDER BY p.code`
	rows, err := r.q.Query(context.Background(), query, day, day.Year())
	if err != nil {
		return nil, fmt.Errorf("daily product stats: %w", err)
	}
	defer rows.Close()

	var result []*repository.DailyProductStatRow
	for rows.Next() {
		var s repository.DailyProductStatRow
		if err := rows.Scan(&s.ProductID, &s.ProductCode, &s.ProductName,
			&s.QuantityDay, &s.QuantityYear); err != nil {
			return nil, fmt.Errorf("scan daily product stat: %w", err)
		}
		result = append(result, &s)
	}
	return result, rows.Err()
}

// InvoicedHT agrega el HT facturado en [from, to].
func (r *AnalyticsRepo) InvoicedHT(from, to time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_ht), 0) FROM invoices WHERE date BETWEEN $1 AND $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, from, to).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("invoiced ht: %w", err)
	}
	return sum, nil
}

// CreditedHT agrega el HT de los avoirs ligados a facturas de [from, to].
func (r *AnalyticsRepo) CreditedHT(from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(cn.total_ht), 0)
		FROM credit_notes cn
		JOIN invoices i ON i.id = cn.invoice_id
		WHERE i.date BETWEEN $1 AND $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, from, to).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("credited ht: %w", err)
	}
	return sum, nil
}
