package entity

import "time"

// AuditLog entrada append-only del diario de auditoría. Nunca se modifica ni
// se borra. Cada workflow confirmado o abortado emite una entrada.
type AuditLog struct {
	ID        string
	UserID    string
	Username  string
	Action    string
	Details   string
	EntityRef string // referencia a la entidad afectada (id de factura, avoir, pago...)
	CreatedAt time.Time
}
