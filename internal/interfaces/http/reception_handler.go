package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/stock"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// ReceptionHandler maneja las recepciones de fábrica (protegido).
type ReceptionHandler struct {
	uc            *stock.ReceptionUseCase
	receptionRepo repository.ReceptionRepository
}

// NewReceptionHandler construye el handler.
func NewReceptionHandler(uc *stock.ReceptionUseCase, receptionRepo repository.ReceptionRepository) *ReceptionHandler {
	return &ReceptionHandler{uc: uc, receptionRepo: receptionRepo}
}

// Register registra una recepción con su movimiento de stock si aplica.
// POST /api/receptions
func (h *ReceptionHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterReceptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.Register(c.Context(), GetUserID(c), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// List devuelve recepciones filtradas por año.
// GET /api/receptions
func (h *ReceptionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	receptions, err := h.receptionRepo.List(c.QueryInt("year", 0), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(receptions)
}
