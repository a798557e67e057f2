package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/closing"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// ClosingHandler maneja el cierre anual (solo admin).
type ClosingHandler struct {
	uc          *closing.ClosingUseCase
	closureRepo repository.ClosureRepository
}

// NewClosingHandler construye el handler.
func NewClosingHandler(uc *closing.ClosingUseCase, closureRepo repository.ClosureRepository) *ClosingHandler {
	return &ClosingHandler{uc: uc, closureRepo: closureRepo}
}

// Close ejecuta el cierre del ejercicio indicado. Idempotente: si el año ya
// está cerrado devuelve el resultado almacenado.
// POST /api/closings/:year
func (h *ClosingHandler) Close(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil || year <= 0 {
		return respondError(c, domain.ErrInvalidInput)
	}
	resp, err := h.uc.Close(c.Context(), GetUserID(c), GetUsername(c), year)
	if err != nil {
		return respondError(c, err)
	}
	if resp.AlreadyClosed {
		return c.JSON(resp)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List devuelve los cierres registrados.
// GET /api/closings
func (h *ClosingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	closures, err := h.closureRepo.List(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(closures))
	for _, cl := range closures {
		out = append(out, fiber.Map{
			"year":      cl.Year,
			"closed_at": cl.ClosedAt,
			"closed_by": cl.CreatedBy,
		})
	}
	return c.JSON(out)
}
