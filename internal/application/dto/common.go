package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QuiescentRequest ventana de quiescencia solicitada para un respaldo.
type QuiescentRequest struct {
	HoldSeconds int `json:"hold_seconds"`
}

// QuiescentResponse ventana efectiva durante la cual no hubo workflows en vuelo.
type QuiescentResponse struct {
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at"`
}

// AuditEntryResponse entrada del diario de auditoría.
type AuditEntryResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	EntityRef string `json:"entity_ref,omitempty"`
	CreatedAt string `json:"created_at"`
}
