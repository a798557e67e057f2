package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/report"
)

// ReportHandler expone los reportes de solo lectura (protegido).
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// ClientSituation devuelve el saldo desglosado y los últimos documentos de un
// cliente.
// GET /api/reports/clients/:id/situation
func (h *ReportHandler) ClientSituation(c *fiber.Ctx) error {
	resp, err := h.uc.ClientSituation(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// DailySales devuelve las ventas de un día con estadísticas por producto.
// GET /api/reports/daily-sales?date=YYYY-MM-DD
func (h *ReportHandler) DailySales(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida"})
		}
		day = parsed
	}
	resp, err := h.uc.DailySales(c.Context(), day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// NetRevenue devuelve el volumen de negocio neto HT de un período.
// GET /api/reports/net-revenue?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) NetRevenue(c *fiber.Ctx) error {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha from inválida"})
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha to inválida"})
	}
	resp, err := h.uc.NetRevenue(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
