package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Comercial-api/internal/domain/finance"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// La fórmula cerrada: Saldo = Report N-1 + Σ Pagos + Σ Avoirs - Σ Facturas.
func TestCompute_FormulaCerrada(t *testing.T) {
	b := finance.Compute(dec("1500.00"), dec("20000.00"), dec("500.00"), dec("18000.00"))

	assert.True(t, b.Balance.Equal(dec("4000.00")),
		"1500 + 20000 + 500 - 18000 = 4000, obtenido %s", b.Balance)
	assert.True(t, b.CarryForward.Equal(dec("1500.00")))
	assert.True(t, b.Invoices.Equal(dec("18000.00")))
}

func TestCompute_SinMovimientos_SaldoEsReport(t *testing.T) {
	b := finance.Compute(dec("-2500.00"), decimal.Zero, decimal.Zero, decimal.Zero)
	assert.True(t, b.Balance.Equal(dec("-2500.00")), "sin movimientos el saldo es el report N-1")
}

func TestCompute_DeudaEsNegativa(t *testing.T) {
	b := finance.Compute(decimal.Zero, decimal.Zero, decimal.Zero, dec("80000.00"))
	assert.True(t, b.Balance.IsNegative(), "facturar sin pagar deja saldo negativo (deuda)")
}

// Límite 100000, sin historial: la primera factura de 80000 cabe.
func TestCheckCreditLimit_PrimeraFacturaDentroDelLimite(t *testing.T) {
	current := finance.Compute(decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)

	d := finance.CheckCreditLimit(current, dec("100000"), dec("80000"))

	assert.True(t, d.Allowed)
	assert.True(t, d.FutureBalance.Equal(dec("-80000")))
	assert.True(t, d.Overrun.IsZero())
}

// Con deuda de 80000 y límite 100000, otra factura de 30000 excede por 10000.
func TestCheckCreditLimit_SegundaFacturaExcede(t *testing.T) {
	current := finance.Compute(decimal.Zero, decimal.Zero, decimal.Zero, dec("80000"))

	d := finance.CheckCreditLimit(current, dec("100000"), dec("30000"))

	assert.False(t, d.Allowed)
	assert.True(t, d.FutureBalance.Equal(dec("-110000")))
	assert.True(t, d.Overrun.Equal(dec("10000")), "el exceso debe ser 10000, obtenido %s", d.Overrun)
	assert.NotEmpty(t, d.Reason)
}

// La deuda futura puede tocar exactamente el límite.
func TestCheckCreditLimit_ExactamenteEnElLimite(t *testing.T) {
	current := finance.Compute(decimal.Zero, decimal.Zero, decimal.Zero, dec("80000"))

	d := finance.CheckCreditLimit(current, dec("100000"), dec("20000"))

	assert.True(t, d.Allowed, "deuda futura igual al límite debe permitirse")
	assert.True(t, d.FutureBalance.Equal(dec("-100000")))
}

// Límite cero o negativo significa sin límite.
func TestCheckCreditLimit_LimiteCero_SinLimite(t *testing.T) {
	current := finance.Compute(decimal.Zero, decimal.Zero, decimal.Zero, dec("9000000"))

	d := finance.CheckCreditLimit(current, decimal.Zero, dec("5000000"))

	assert.True(t, d.Allowed, "límite cero no debe bloquear nunca")
}

// Un cliente con crédito (saldo positivo) consume primero su crédito.
func TestCheckCreditLimit_SaldoPositivoAbsorbeLaFactura(t *testing.T) {
	current := finance.Compute(dec("50000"), decimal.Zero, decimal.Zero, decimal.Zero)

	d := finance.CheckCreditLimit(current, dec("10000"), dec("55000"))

	assert.True(t, d.Allowed, "50000 de crédito + 10000 de límite cubren 55000")
	assert.True(t, d.FutureBalance.Equal(dec("-5000")))
}
