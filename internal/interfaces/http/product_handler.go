package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/catalog"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/stock"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	domstock "github.com/jhoicas/Comercial-api/internal/domain/stock"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	uc     *catalog.ProductUseCase
	ledger *stock.LedgerUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, ledger *stock.LedgerUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, ledger: ledger}
}

// Create da de alta un producto o variante de precio.
// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Create(c.Context(), GetUserID(c), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// List devuelve productos paginados.
// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	products, err := h.uc.List(c.Context(), c.QueryBool("active", true), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

// GetByID devuelve un producto.
// GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

// UpdatePrice cambia el precio con rastro en price_history.
// PUT /api/products/:id/price
func (h *ProductHandler) UpdatePrice(c *fiber.Ctx) error {
	var in dto.UpdatePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdatePrice(c.Context(), GetUserID(c), GetUsername(c), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetStock devuelve el nivel actual del pool (post resolución padre/hijo).
// GET /api/products/:id/stock
func (h *ProductHandler) GetStock(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	level, err := h.ledger.CurrentStock(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockResponse{
		ProductID:    id,
		OwnerID:      domstock.OwnerID(product),
		CurrentStock: level,
	})
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Unit:         p.Unit,
		Price:        p.Price,
		TaxRate:      p.TaxRate,
		CurrentStock: p.CurrentStock,
		Active:       p.Active,
	}
	if p.ParentID != nil {
		resp.ParentID = *p.ParentID
	}
	return resp
}
