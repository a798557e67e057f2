package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create ejecuta el workflow de creación de factura: control de stock, de
// crédito y confirmación atómica.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, lines, err := h.uc.Create(c.Context(), GetUserID(c), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	resp := toInvoiceResponse(invoice)
	for _, l := range lines {
		resp.Lines = append(resp.Lines, toInvoiceLineResponse(l))
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID devuelve una factura con sus líneas.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, lines, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := toInvoiceResponse(invoice)
	for _, l := range lines {
		resp.Lines = append(resp.Lines, toInvoiceLineResponse(*l))
	}
	return c.JSON(resp)
}

// List devuelve facturas filtradas por cliente y/o año.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	invoices, err := h.uc.List(c.Context(), c.Query("client_id"), c.QueryInt("year", 0), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	return c.JSON(out)
}

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:       inv.ID,
		Number:   inv.Number,
		Year:     inv.Year,
		Date:     inv.Date.Format("2006-01-02"),
		ClientID: inv.ClientID,
		TotalHT:  inv.TotalHT,
		TotalTVA: inv.TotalTVA,
		TotalTTC: inv.TotalTTC,
		Status:   inv.Status,
	}
}

func toInvoiceLineResponse(l entity.InvoiceLine) dto.InvoiceLineResponse {
	return dto.InvoiceLineResponse{
		ID:        l.ID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Amount:    l.Amount,
	}
}
