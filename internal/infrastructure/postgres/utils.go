package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// nextNumber calcula el siguiente consecutivo <prefix>-<año>-<n> sobre la
// columna number de la tabla. El constraint UNIQUE de number resuelve la
// carrera entre transacciones concurrentes: la segunda aborta y reintenta.
func nextNumber(q Querier, table, prefix string, year int) (string, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(CAST(SPLIT_PART(number, '-', 3) AS integer)), 0)
		FROM %s WHERE number LIKE $1`, table)
	like := fmt.Sprintf("%s-%d-%%", prefix, year)
	var last int
	if err := q.QueryRow(context.Background(), query, like).Scan(&last); err != nil {
		return "", fmt.Errorf("next number %s: %w", table, err)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, last+1), nil
}

// nullIfEmpty mapea cadenas vacías a NULL (columnas uuid o text nullable).
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}
