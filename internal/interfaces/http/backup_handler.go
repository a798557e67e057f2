package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
)

const maxQuiescentHold = 60 * time.Second

// BackupHandler expone la ventana de quiescencia para respaldos (solo admin).
type BackupHandler struct {
	gate *backup.Gate
}

// NewBackupHandler construye el handler.
func NewBackupHandler(gate *backup.Gate) *BackupHandler {
	return &BackupHandler{gate: gate}
}

// Quiescent mantiene la compuerta cerrada durante la ventana solicitada. El
// operador lanza la copia externa de la base dentro de esa ventana sin ningún
// workflow en vuelo.
// POST /api/backup/quiescent
func (h *BackupHandler) Quiescent(c *fiber.Ctx) error {
	var in dto.QuiescentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	hold := time.Duration(in.HoldSeconds) * time.Second
	if hold <= 0 {
		hold = 5 * time.Second
	}
	if hold > maxQuiescentHold {
		hold = maxQuiescentHold
	}

	var started, ended time.Time
	err := h.gate.Quiescent(c.Context(), func() error {
		started = time.Now().UTC()
		time.Sleep(hold)
		ended = time.Now().UTC()
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.QuiescentResponse{
		StartedAt: started.Format(time.RFC3339),
		EndedAt:   ended.Format(time.RFC3339),
	})
}
