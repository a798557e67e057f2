package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// Los documentos de años ya cerrados viven dentro del report N-1: el motor de
// saldos no los vuelve a sumar.
func TestComputeBalance_IgnoraDocumentosDeAnosCerrados(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "0")
	// El cierre de 2024 congeló -5000 como report N-1.
	c := f.st.clients["c1"]
	c.CarryForward = dec("-5000")
	f.st.clients["c1"] = c
	f.st.closures[2024] = entity.Closure{ID: "cl-2024", Year: 2024}

	// Factura archivada del año cerrado: ya está contenida en el report.
	f.st.invoices["f-old"] = entity.Invoice{
		ID: "f-old", ClientID: "c1", Year: 2024,
		Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), TotalTTC: dec("5000"),
	}
	// Pago del periodo en curso.
	f.st.payments["pg1"] = entity.Payment{
		ID: "pg1", ClientID: "c1",
		Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Amount: dec("3000"),
	}

	breakdown, err := f.balance.ComputeBalance(context.Background(), "c1", time.Now())
	require.NoError(t, err)

	assert.True(t, breakdown.Invoices.IsZero(), "la factura archivada no se suma de nuevo")
	assert.True(t, breakdown.Balance.Equal(dec("-2000")), "-5000 de report + 3000 de pago")
}

func TestComputeBalance_ClienteInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.balance.ComputeBalance(context.Background(), "fantasma", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La simulación de crédito coincide con lo que el orquestador decidirá.
func TestCheckCreditLimit_Simulacion(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "100000")
	f.st.invoices["f1"] = entity.Invoice{
		ID: "f1", ClientID: "c1", Year: time.Now().Year(),
		Date: time.Now().Add(-time.Hour), TotalTTC: dec("80000"),
	}

	decision, err := f.balance.CheckCreditLimit(context.Background(), "c1", dec("30000"))
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.True(t, decision.Overrun.Equal(dec("10000")))

	decision, err = f.balance.CheckCreditLimit(context.Background(), "c1", dec("20000"))
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "tocar el límite exacto está permitido")
}
