package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del diario de auditoría sobre PostgreSQL (usable con pool o tx).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create añade una entrada al diario.
func (r *AuditRepo) Create(entry *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, username, action, details, entity_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, nullIfEmpty(entry.UserID), nullIfEmpty(entry.Username), entry.Action,
		nullIfEmpty(entry.Details), nullIfEmpty(entry.EntityRef), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List devuelve entradas del diario, las más recientes primero.
func (r *AuditRepo) List(limit, offset int) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, COALESCE(user_id::text, ''), COALESCE(username, ''), action,
			COALESCE(details, ''), COALESCE(entity_ref, ''), created_at
		FROM audit_logs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditLog
	for rows.Next() {
		var e entity.AuditLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Action, &e.Details, &e.EntityRef, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
