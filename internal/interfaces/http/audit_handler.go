package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// AuditHandler expone el diario de auditoría (solo admin).
type AuditHandler struct {
	auditRepo repository.AuditRepository
}

// NewAuditHandler construye el handler.
func NewAuditHandler(auditRepo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// List devuelve las entradas más recientes del diario.
// GET /api/audit
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	entries, err := h.auditRepo.List(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Username:  e.Username,
			Action:    e.Action,
			Details:   e.Details,
			EntityRef: e.EntityRef,
			CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return c.JSON(out)
}
