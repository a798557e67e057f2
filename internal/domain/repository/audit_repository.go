package repository

import "github.com/jhoicas/Comercial-api/internal/domain/entity"

// AuditRepository define el puerto del diario de auditoría (append-only).
type AuditRepository interface {
	Create(entry *entity.AuditLog) error
	List(limit, offset int) ([]*entity.AuditLog, error)
}
