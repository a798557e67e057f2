package dto

import "github.com/shopspring/decimal"

// BalanceResponse desglose del saldo de un cliente.
// Saldo positivo = crédito disponible, negativo = deuda.
type BalanceResponse struct {
	ClientID     string          `json:"client_id"`
	AsOf         string          `json:"as_of"`
	CarryForward decimal.Decimal `json:"carry_forward"`
	Payments     decimal.Decimal `json:"payments"`
	CreditNotes  decimal.Decimal `json:"credit_notes"`
	Invoices     decimal.Decimal `json:"invoices"`
	Balance      decimal.Decimal `json:"balance"`
}

// CreditCheckResponse resultado de la verificación de límite de crédito.
type CreditCheckResponse struct {
	Allowed       bool            `json:"allowed"`
	FutureBalance decimal.Decimal `json:"future_balance"`
	Limit         decimal.Decimal `json:"limit"`
	Overrun       decimal.Decimal `json:"overrun"`
	Reason        string          `json:"reason,omitempty"`
}

// ClosingResponse resultado del cierre anual.
type ClosingResponse struct {
	Year          int             `json:"year"`
	AlreadyClosed bool            `json:"already_closed"`
	ClientsClosed int             `json:"clients_closed"`
	ClosedAt      string          `json:"closed_at"`
	CarryForwards map[string]decimal.Decimal `json:"carry_forwards"`
}
