package finance

import "github.com/shopspring/decimal"

// Breakdown desglose del saldo de un cliente según la fórmula
// Saldo = Report N-1 + Σ Pagos + Σ Avoirs - Σ Facturas (montos TTC).
// Saldo positivo = crédito disponible, negativo = deuda.
type Breakdown struct {
	CarryForward decimal.Decimal
	Payments     decimal.Decimal
	CreditNotes  decimal.Decimal
	Invoices     decimal.Decimal
	Balance      decimal.Decimal
}

// Compute evalúa la fórmula cerrada del saldo a partir de los agregados.
func Compute(carryForward, payments, creditNotes, invoices decimal.Decimal) Breakdown {
	return Breakdown{
		CarryForward: carryForward,
		Payments:     payments,
		CreditNotes:  creditNotes,
		Invoices:     invoices,
		Balance:      carryForward.Add(payments).Add(creditNotes).Sub(invoices),
	}
}
