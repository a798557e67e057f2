package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/finance"
)

// BalanceHandler expone el motor de saldos (protegido).
type BalanceHandler struct {
	uc *finance.BalanceUseCase
}

// NewBalanceHandler construye el handler.
func NewBalanceHandler(uc *finance.BalanceUseCase) *BalanceHandler {
	return &BalanceHandler{uc: uc}
}

// GetBalance devuelve el saldo desglosado de un cliente.
// GET /api/clients/:id/balance
func (h *BalanceHandler) GetBalance(c *fiber.Ctx) error {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha as_of inválida"})
		}
		asOf = parsed
	}
	breakdown, err := h.uc.ComputeBalance(c.Context(), c.Params("id"), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceResponse{
		ClientID:     c.Params("id"),
		AsOf:         asOf.Format(time.RFC3339),
		CarryForward: breakdown.CarryForward,
		Payments:     breakdown.Payments,
		CreditNotes:  breakdown.CreditNotes,
		Invoices:     breakdown.Invoices,
		Balance:      breakdown.Balance,
	})
}

// CheckCredit simula el control de crédito para un monto TTC propuesto.
// GET /api/clients/:id/credit-check?amount=...
func (h *BalanceHandler) CheckCredit(c *fiber.Ctx) error {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "amount inválido"})
	}
	decision, err := h.uc.CheckCreditLimit(c.Context(), c.Params("id"), amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CreditCheckResponse{
		Allowed:       decision.Allowed,
		FutureBalance: decision.FutureBalance,
		Limit:         decision.Limit,
		Overrun:       decision.Overrun,
		Reason:        decision.Reason,
	})
}
