package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// CreditNoteHandler maneja las peticiones HTTP de avoirs (protegido).
type CreditNoteHandler struct {
	uc *billing.CreditNoteUseCase
}

// NewCreditNoteHandler construye el handler.
func NewCreditNoteHandler(uc *billing.CreditNoteUseCase) *CreditNoteHandler {
	return &CreditNoteHandler{uc: uc}
}

// Create ejecuta el workflow de creación de avoir sobre una factura.
// POST /api/credit-notes
func (h *CreditNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCreditNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	note, lines, err := h.uc.Create(c.Context(), GetUserID(c), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	resp := toCreditNoteResponse(note)
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID: l.ID, ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Amount: l.Amount,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID devuelve un avoir con sus líneas.
// GET /api/credit-notes/:id
func (h *CreditNoteHandler) GetByID(c *fiber.Ctx) error {
	note, lines, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := toCreditNoteResponse(note)
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID: l.ID, ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Amount: l.Amount,
		})
	}
	return c.JSON(resp)
}

// List devuelve avoirs filtrados por cliente y/o año.
// GET /api/credit-notes
func (h *CreditNoteHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	notes, err := h.uc.List(c.Context(), c.Query("client_id"), c.QueryInt("year", 0), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CreditNoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toCreditNoteResponse(n))
	}
	return c.JSON(out)
}

func toCreditNoteResponse(n *entity.CreditNote) dto.CreditNoteResponse {
	return dto.CreditNoteResponse{
		ID:        n.ID,
		Number:    n.Number,
		Year:      n.Year,
		Date:      n.Date.Format("2006-01-02"),
		InvoiceID: n.InvoiceID,
		ClientID:  n.ClientID,
		Reason:    n.Reason,
		TotalHT:   n.TotalHT,
		TotalTVA:  n.TotalTVA,
		TotalTTC:  n.TotalTTC,
	}
}
