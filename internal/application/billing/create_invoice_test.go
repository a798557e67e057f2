package billing_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/finance"
	"github.com/jhoicas/Comercial-api/internal/application/stock"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

// fixture orquestadores de facturación montados sobre el almacén en memoria.
type fixture struct {
	st       *memState
	invoices *billing.InvoiceUseCase
	notes    *billing.CreditNoteUseCase
	payments *billing.PaymentUseCase
	balance  *finance.BalanceUseCase
}

func newFixture() *fixture {
	st := newMemState()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	gate := backup.NewGate()
	tx := &memTxRunner{st: st}

	products := &memProducts{st}
	movements := &memMovements{st}
	ledger := stock.NewLedgerUseCase(nil, products, movements, gate, log)

	balance := finance.NewBalanceUseCase(&memClients{st}, &memInvoices{st}, &memNotes{st}, &memPayments{st}, &memClosures{st})
	return &fixture{
		st:       st,
		invoices: billing.NewInvoiceUseCase(tx, ledger, balance, &memInvoices{st}, &memAudit{st}, gate, log),
		notes:    billing.NewCreditNoteUseCase(tx, ledger, &memNotes{st}, &memAudit{st}, gate, log),
		payments: billing.NewPaymentUseCase(tx, &memPayments{st}, gate),
		balance:  balance,
	}
}

func (f *fixture) seedClient(id, creditLimit string) {
	f.st.clients[id] = entity.Client{
		ID:          id,
		Name:        "SARL Bâtiment " + id,
		CreditLimit: dec(creditLimit),
		Active:      true,
	}
}

func (f *fixture) seedProduct(id, price, taxRate, currentStock string) {
	f.st.products[id] = entity.Product{
		ID:           id,
		Code:         "CEM-" + id,
		Name:         "Ciment " + id,
		Unit:         entity.UnitBag50,
		Price:        dec(price),
		TaxRate:      dec(taxRate),
		CurrentStock: dec(currentStock),
		Active:       true,
	}
}

func (f *fixture) seedChild(id, parentID, price string) {
	f.st.products[id] = entity.Product{
		ID:       id,
		Code:     "CEM-" + id,
		Name:     "Ciment " + id,
		Unit:     entity.UnitBag50,
		Price:    dec(price),
		TaxRate:  dec("0"),
		ParentID: &parentID,
		Active:   true,
	}
}

func invoiceReq(clientID, productID, qty, unitPrice string) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ClientID: clientID,
		Items: []dto.InvoiceItemRequest{
			{ProductID: productID, Quantity: dec(qty), UnitPrice: dec(unitPrice)},
		},
	}
}

// Camino completo: la factura, sus líneas, la salida de stock y la auditoría
// se confirman juntas.
func TestCreateInvoice_Completa(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "0")
	f.seedProduct("p1", "1000", "0.19", "100")

	inv, lines, err := f.invoices.Create(context.Background(), "u1", "amine", invoiceReq("c1", "p1", "10", "0"))
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Contains(t, inv.Number, "FAC-")
	assert.Equal(t, year, inv.Year)
	assert.True(t, inv.TotalHT.Equal(dec("10000")), "HT = 10 * 1000")
	assert.True(t, inv.TotalTVA.Equal(dec("1900")), "TVA al 19 por ciento")
	assert.True(t, inv.TotalTTC.Equal(dec("11900")))

	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice.Equal(dec("1000")), "precio cero toma el precio vigente del producto")

	// Efectos persistidos en bloque.
	assert.Len(t, f.st.invoices, 1)
	assert.Len(t, f.st.invoiceLines, 1)
	require.Len(t, f.st.movements, 1)
	mov := f.st.movements[0]
	assert.Equal(t, entity.MovementInvoiceOut, mov.Kind)
	assert.True(t, mov.Quantity.Equal(dec("-10")))
	assert.Equal(t, inv.Number, mov.Reference, "el movimiento lleva el número de factura como referencia")
	assert.True(t, f.st.products["p1"].CurrentStock.Equal(dec("90")))
	assert.Contains(t, auditActions(f.st), "INVOICE_CREATED")
}

// Stock insuficiente: nada queda persistido, solo la entrada de abort.
func TestCreateInvoice_StockInsuficiente_TodoONada(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "0")
	f.seedProduct("p1", "1000", "0.19", "5")

	_, _, err := f.invoices.Create(context.Background(), "u1", "amine", invoiceReq("c1", "p1", "10", "0"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, f.st.invoices, "la factura no debe persistirse")
	assert.Empty(t, f.st.invoiceLines)
	assert.Empty(t, f.st.movements, "ningún movimiento debe quedar")
	assert.True(t, f.st.products["p1"].CurrentStock.Equal(dec("5")), "el stock no debe cambiar")

	actions := auditActions(f.st)
	assert.Contains(t, actions, "INVOICE_ABORTED", "el abort se audita fuera de la tx revertida")
	assert.NotContains(t, actions, "INVOICE_CREATED")
}

// Límite 100000: la primera factura de 80000 pasa, la segunda de 30000 se
// bloquea y revierte también su salida de stock.
func TestCreateInvoice_LimiteDeCredito(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "100000")
	f.seedProduct("p1", "8000", "0", "1000")

	ctx := context.Background()
	first, _, err := f.invoices.Create(ctx, "u1", "amine", invoiceReq("c1", "p1", "10", "0"))
	require.NoError(t, err)
	require.True(t, first.TotalTTC.Equal(dec("80000")))

	_, _, err = f.invoices.Create(ctx, "u1", "amine", invoiceReq("c1", "p1", "3.75", "0"))
	require.ErrorIs(t, err, domain.ErrCreditLimitExceeded, "80000 + 30000 excede el límite de 100000")

	assert.Len(t, f.st.invoices, 1, "solo la primera factura queda")
	assert.Len(t, f.st.movements, 1)
	assert.True(t, f.st.products["p1"].CurrentStock.Equal(dec("990")), "la salida de la factura bloqueada se revierte")
}

// La deuda futura puede tocar exactamente el límite.
func TestCreateInvoice_ExactamenteEnElLimite(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "100000")
	f.seedProduct("p1", "100000", "0", "10")

	_, _, err := f.invoices.Create(context.Background(), "u1", "amine", invoiceReq("c1", "p1", "1", "0"))
	assert.NoError(t, err)
}

// No se factura dentro de un año ya cerrado.
func TestCreateInvoice_AnoCerrado(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "0")
	f.seedProduct("p1", "1000", "0", "100")
	f.st.closures[2024] = entity.Closure{ID: "cl-2024", Year: 2024}

	req := invoiceReq("c1", "p1", "1", "0")
	req.Date = "2024-06-15"

	_, _, err := f.invoices.Create(context.Background(), "u1", "amine", req)
	assert.ErrorIs(t, err, domain.ErrYearClosed)
	assert.Empty(t, f.st.invoices)
}

// Facturar una variante de precio drena el pool del padre; agotado el pool,
// ni el padre ni la variante pueden vender un saco más.
func TestCreateInvoice_VarianteDrenaElPoolDelPadre(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "0")
	f.seedProduct("parent", "1000", "0", "10")
	f.seedChild("promo", "parent", "900")

	ctx := context.Background()
	inv, _, err := f.invoices.Create(ctx, "u1", "amine", invoiceReq("c1", "promo", "10", "0"))
	require.NoError(t, err)

	assert.True(t, f.st.products["parent"].CurrentStock.Equal(decimal.Zero), "el pool del padre queda en cero")
	require.Len(t, f.st.movements, 1)
	assert.Equal(t, "parent", f.st.movements[0].ProductID, "el movimiento se asienta sobre el dueño del pool")
	assert.True(t, strings.Contains(f.st.movements[0].Reference, "(Via "), "la referencia conserva la variante")
	assert.True(t, strings.Contains(f.st.movements[0].Reference, inv.Number))

	_, _, err = f.invoices.Create(ctx, "u1", "amine", invoiceReq("c1", "parent", "1", "0"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "pool agotado: tampoco el padre puede vender")

	_, _, err = f.invoices.Create(ctx, "u1", "amine", invoiceReq("c1", "promo", "1", "0"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreateInvoice_ClienteInexistente(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "1000", "0", "100")

	_, _, err := f.invoices.Create(context.Background(), "u1", "amine", invoiceReq("fantasma", "p1", "1", "0"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateInvoice_ClienteArchivado(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "0")
	c := f.st.clients["c1"]
	c.Active = false
	f.st.clients["c1"] = c
	f.seedProduct("p1", "1000", "0", "100")

	_, _, err := f.invoices.Create(context.Background(), "u1", "amine", invoiceReq("c1", "p1", "1", "0"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateInvoice_ValidacionDeEntrada(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "0")
	f.seedProduct("p1", "1000", "0", "100")
	ctx := context.Background()

	_, _, err := f.invoices.Create(ctx, "u1", "amine", dto.CreateInvoiceRequest{ClientID: "c1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, _, err = f.invoices.Create(ctx, "u1", "amine", invoiceReq("c1", "p1", "-2", "0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	req := invoiceReq("c1", "p1", "1", "0")
	req.Date = "15/06/2025"
	_, _, err = f.invoices.Create(ctx, "u1", "amine", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "fecha con formato inválido")
}

// El saldo del cliente refleja el flujo completo:
// report N-1 + pagos + avoirs - facturas.
func TestFlujoComercial_SaldoCoherente(t *testing.T) {
	f := newFixture()
	f.seedClient("c1", "0")
	f.seedProduct("p1", "8000", "0", "1000")
	ctx := context.Background()

	inv, _, err := f.invoices.Create(ctx, "u1", "amine", invoiceReq("c1", "p1", "10", "0"))
	require.NoError(t, err)

	_, err = f.payments.Register(ctx, "u1", "amine", dto.RegisterPaymentRequest{
		ClientID: "c1", Amount: dec("50000"), Mode: entity.PaymentCash,
	})
	require.NoError(t, err)

	_, _, err = f.notes.Create(ctx, "u1", "amine", dto.CreateCreditNoteRequest{
		InvoiceID: inv.ID,
		Reason:    "retour marchandise",
		Items:     []dto.CreditNoteItemRequest{{ProductID: "p1", Quantity: dec("2.5")}},
	})
	require.NoError(t, err)

	breakdown, err := f.balance.ComputeBalance(ctx, "c1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	// 0 + 50000 + 20000 - 80000 = -10000
	assert.True(t, breakdown.Balance.Equal(dec("-10000")), "saldo esperado -10000, obtenido %s", breakdown.Balance)
}
