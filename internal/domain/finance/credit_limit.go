package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Decision resultado de la verificación de límite de crédito.
// El orquestador debe consultarla antes de confirmar una factura y abortar si
// Allowed es false.
type Decision struct {
	Allowed       bool
	FutureBalance decimal.Decimal // saldo tras la factura propuesta
	Limit         decimal.Decimal
	Overrun       decimal.Decimal // cuánto excede el límite; cero si permitido
	Reason        string
}

// CheckCreditLimit decide si una factura propuesta cabe dentro del límite de
// crédito. Límite cero o negativo significa sin límite. La deuda futura
// (-saldo futuro) no puede superar el límite.
func CheckCreditLimit(current Breakdown, limit, proposedTTC decimal.Decimal) Decision {
	future := current.Balance.Sub(proposedTTC)
	if limit.LessThanOrEqual(decimal.Zero) {
		return Decision{Allowed: true, FutureBalance: future, Limit: limit}
	}

	floor := limit.Neg()
	if future.GreaterThanOrEqual(floor) {
		return Decision{Allowed: true, FutureBalance: future, Limit: limit}
	}

	overrun := floor.Sub(future)
	return Decision{
		Allowed:       false,
		FutureBalance: future,
		Limit:         limit,
		Overrun:       overrun,
		Reason: fmt.Sprintf("crédit insuffisant: solde futur %s, limite %s",
			future.StringFixed(2), limit.StringFixed(2)),
	}
}
