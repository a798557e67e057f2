package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/report"
	"github.com/jhoicas/Comercial-api/internal/application/stock"
)

// StockHandler maneja el libro de stock: movimientos sueltos, reparación,
// histórico y reporte de niveles (protegido).
type StockHandler struct {
	ledger  *stock.LedgerUseCase
	reports *report.ReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase, reports *report.ReportUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, reports: reports}
}

// RegisterMovement registra un movimiento suelto (recepción o corrección manual).
// POST /api/stock/movements
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.RegisterMovement(c.Context(), stock.MovementInput{
		ProductID:   in.ProductID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		Destination: in.Destination,
		Reference:   in.Reference,
		UserID:      GetUserID(c),
	}, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Repair recrea movimientos de recepción faltantes y recalcula todos los
// niveles por replay (solo admin).
// POST /api/stock/repair
func (h *StockHandler) Repair(c *fiber.Ctx) error {
	stats, err := h.ledger.RepairStock(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RepairStockResponse{
		ReceptionsFixed: stats.ReceptionsFixed,
		ProductsUpdated: stats.ProductsUpdated,
	})
}

// History devuelve el histórico de movimientos de un producto.
// GET /api/stock/:productId/movements
func (h *StockHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha from inválida"})
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha to inválida"})
		}
		to = &parsed
	}

	rows, err := h.reports.MovementHistory(c.Context(), c.Params("productId"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// Report devuelve los niveles de todos los pools con verificación por replay.
// GET /api/stock/report
func (h *StockHandler) Report(c *fiber.Ctx) error {
	rows, err := h.reports.StockReport(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}
