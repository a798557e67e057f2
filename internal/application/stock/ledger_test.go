package stock_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/stock"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con rollback por copia: suficiente para probar el
// todo-o-nada del libro de stock sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

type ledgerState struct {
	products   map[string]entity.Product
	movements  []entity.StockMovement
	receptions []entity.Reception
	audit      []entity.AuditLog
	recSeq     int
}

func newLedgerState() *ledgerState {
	return &ledgerState{products: make(map[string]entity.Product)}
}

func (s *ledgerState) clone() *ledgerState {
	c := newLedgerState()
	for k, v := range s.products {
		c.products[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	c.receptions = append([]entity.Reception(nil), s.receptions...)
	c.audit = append([]entity.AuditLog(nil), s.audit...)
	c.recSeq = s.recSeq
	return c
}

type ledgerTxRunner struct{ st *ledgerState }

func (t *ledgerTxRunner) Run(ctx context.Context, fn func(r stock.Repos) error) error {
	snapshot := t.st.clone()
	err := fn(stock.Repos{
		Movements:  &fakeMovements{t.st},
		Products:   &fakeProducts{t.st},
		Receptions: &fakeReceptions{t.st},
		Audit:      &fakeAudit{t.st},
	})
	if err != nil {
		*t.st = *snapshot
		return err
	}
	return nil
}

type fakeProducts struct{ st *ledgerState }

func (f *fakeProducts) Create(p *entity.Product) error {
	f.st.products[p.ID] = *p
	return nil
}

func (f *fakeProducts) GetByID(id string) (*entity.Product, error) {
	p, ok := f.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProducts) List(activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for id := range f.st.products {
		p := f.st.products[id]
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

func (f *fakeProducts) Update(p *entity.Product) error {
	f.st.products[p.ID] = *p
	return nil
}

func (f *fakeProducts) ListChildren(parentID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for id := range f.st.products {
		p := f.st.products[id]
		if p.ParentID != nil && *p.ParentID == parentID {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (f *fakeProducts) GetStockForUpdate(id string) (decimal.Decimal, error) {
	p, ok := f.st.products[id]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return p.CurrentStock, nil
}

func (f *fakeProducts) UpdateStock(id string, quantity decimal.Decimal) error {
	p, ok := f.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = quantity
	f.st.products[id] = p
	return nil
}

func (f *fakeProducts) UpdateInitialStock(id string, quantity decimal.Decimal) error {
	p, ok := f.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.InitialStock = quantity
	f.st.products[id] = p
	return nil
}

func (f *fakeProducts) UpdatePrice(id string, newPrice decimal.Decimal, referenceNote, userID string) error {
	p, ok := f.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Price = newPrice
	f.st.products[id] = p
	return nil
}

type fakeMovements struct{ st *ledgerState }

func (f *fakeMovements) Create(mv *entity.StockMovement) error {
	f.st.movements = append(f.st.movements, *mv)
	return nil
}

func (f *fakeMovements) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range f.st.movements {
		mv := f.st.movements[i]
		if mv.ProductID == productID {
			out = append(out, &mv)
		}
	}
	return out, nil
}

func (f *fakeMovements) ListByProductUntil(productID string, asOf time.Time) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range f.st.movements {
		mv := f.st.movements[i]
		if mv.ProductID == productID && !mv.CreatedAt.After(asOf) {
			out = append(out, &mv)
		}
	}
	return out, nil
}

func (f *fakeMovements) SumDeltas(productID string, asOf *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, mv := range f.st.movements {
		if mv.ProductID != productID {
			continue
		}
		if asOf != nil && mv.CreatedAt.After(*asOf) {
			continue
		}
		total = total.Add(mv.Quantity)
	}
	return total, nil
}

func (f *fakeMovements) ExistsForDocument(documentID, kind string) (bool, error) {
	for _, mv := range f.st.movements {
		if mv.DocumentID == documentID && mv.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

type fakeReceptions struct{ st *ledgerState }

func (f *fakeReceptions) Create(rec *entity.Reception) error {
	f.st.receptions = append(f.st.receptions, *rec)
	return nil
}

func (f *fakeReceptions) GetByID(id string) (*entity.Reception, error) {
	for i := range f.st.receptions {
		if f.st.receptions[i].ID == id {
			rec := f.st.receptions[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeReceptions) List(year int, limit, offset int) ([]*entity.Reception, error) {
	var out []*entity.Reception
	for i := range f.st.receptions {
		rec := f.st.receptions[i]
		if year != 0 && rec.Year != year {
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}

func (f *fakeReceptions) NextNumber(year int) (string, error) {
	f.st.recSeq++
	return fmt.Sprintf("REC-%d-%04d", year, f.st.recSeq), nil
}

func (f *fakeReceptions) ListToStock() ([]*entity.Reception, error) {
	var out []*entity.Reception
	for i := range f.st.receptions {
		rec := f.st.receptions[i]
		if rec.Destination == entity.DestinationStock {
			out = append(out, &rec)
		}
	}
	return out, nil
}

type fakeAudit struct{ st *ledgerState }

func (f *fakeAudit) Create(e *entity.AuditLog) error {
	f.st.audit = append(f.st.audit, *e)
	return nil
}

func (f *fakeAudit) List(limit, offset int) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for i := range f.st.audit {
		e := f.st.audit[i]
		out = append(out, &e)
	}
	return out, nil
}

// ── fixture ───────────────────────────────────────────────────────────────────

func newLedger(st *ledgerState) (*stock.LedgerUseCase, *stock.ReceptionUseCase) {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	gate := backup.NewGate()
	tx := &ledgerTxRunner{st: st}
	products := &fakeProducts{st}
	ledger := stock.NewLedgerUseCase(tx, products, &fakeMovements{st}, gate, log)
	receptions := stock.NewReceptionUseCase(tx, ledger, products, gate)
	return ledger, receptions
}

func seedProduct(st *ledgerState, id, initial, current string, parentID *string) {
	st.products[id] = entity.Product{
		ID:           id,
		Code:         "CEM-" + id,
		Name:         "Ciment " + id,
		Unit:         entity.UnitBag50,
		Price:        dec("1000"),
		InitialStock: dec(initial),
		CurrentStock: dec(current),
		ParentID:     parentID,
		Active:       true,
	}
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestRegisterMovement_Recepcion(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "p1", "0", "100", nil)
	ledger, _ := newLedger(st)

	err := ledger.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "p1",
		Kind:      entity.MovementReception,
		Quantity:  dec("250"),
		Reference: "REC-2026-0001",
		UserID:    "u1",
	}, "amine")
	require.NoError(t, err)

	assert.True(t, st.products["p1"].CurrentStock.Equal(dec("350")))
	require.Len(t, st.movements, 1)
	assert.True(t, st.movements[0].StockBefore.Equal(dec("100")))
	assert.True(t, st.movements[0].StockAfter.Equal(dec("350")))
}

// Solo RECEPTION y MANUAL_ADJUST pueden registrarse sueltos; las salidas de
// factura entran por el orquestador.
func TestRegisterMovement_TipoRestringido(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "p1", "0", "100", nil)
	ledger, _ := newLedger(st)

	err := ledger.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "p1",
		Kind:      entity.MovementInvoiceOut,
		Quantity:  dec("-10"),
	}, "amine")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Una corrección manual es privilegiada: puede dejar el nivel en negativo.
func TestRegisterMovement_CorreccionManualPuedeSerNegativa(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "p1", "0", "5", nil)
	ledger, _ := newLedger(st)

	err := ledger.RegisterMovement(context.Background(), stock.MovementInput{
		ProductID: "p1",
		Kind:      entity.MovementManual,
		Quantity:  dec("-8"),
		Reference: "inventario físico",
	}, "amine")
	require.NoError(t, err)
	assert.True(t, st.products["p1"].CurrentStock.Equal(dec("-3")))
}

func TestCurrentStock_VarianteLeeElPoolDelPadre(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "parent", "0", "77", nil)
	parentID := "parent"
	seedProduct(st, "child", "0", "0", &parentID)
	ledger, _ := newLedger(st)

	level, err := ledger.CurrentStock(context.Background(), "child")
	require.NoError(t, err)
	assert.True(t, level.Equal(dec("77")))
}

func TestRecomputeFromHistory_CoincideConElMaterializado(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "p1", "50", "50", nil)
	ledger, _ := newLedger(st)
	ctx := context.Background()

	require.NoError(t, ledger.RegisterMovement(ctx, stock.MovementInput{
		ProductID: "p1", Kind: entity.MovementReception, Quantity: dec("200"),
	}, "amine"))
	require.NoError(t, ledger.RegisterMovement(ctx, stock.MovementInput{
		ProductID: "p1", Kind: entity.MovementManual, Quantity: dec("-30"),
	}, "amine"))

	replayed, err := ledger.RecomputeFromHistory(ctx, "p1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, replayed.Equal(dec("220")), "50 + 200 - 30 = 220, obtenido %s", replayed)
	assert.True(t, st.products["p1"].CurrentStock.Equal(replayed), "materializado y replay deben coincidir")
}

// ── recepciones ───────────────────────────────────────────────────────────────

func TestRegisterReception_AStock(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "p1", "0", "10", nil)
	_, receptions := newLedger(st)

	rec, err := receptions.Register(context.Background(), "u1", "amine", dto.RegisterReceptionRequest{
		ProductID:         "p1",
		Destination:       entity.DestinationStock,
		QuantityAnnounced: dec("500"),
		QuantityReceived:  dec("498"),
		GapReason:         "sacs déchirés",
		Driver:            "B. Kaddour",
	})
	require.NoError(t, err)

	assert.Contains(t, rec.Number, "REC-")
	assert.True(t, st.products["p1"].CurrentStock.Equal(dec("508")))
	require.Len(t, st.movements, 1)
	assert.Equal(t, entity.MovementReception, st.movements[0].Kind)
	assert.Equal(t, rec.ID, st.movements[0].DocumentID)
}

// Destino a obra: la recepción queda registrada pero el agregado no cambia.
func TestRegisterReception_AObraNoTocaElStock(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "p1", "0", "10", nil)
	_, receptions := newLedger(st)

	_, err := receptions.Register(context.Background(), "u1", "amine", dto.RegisterReceptionRequest{
		ProductID:        "p1",
		Destination:      entity.DestinationSite,
		SiteAddress:      "chantier Oued Smar",
		QuantityReceived: dec("300"),
	})
	require.NoError(t, err)

	assert.Len(t, st.receptions, 1)
	assert.Empty(t, st.movements, "a obra no genera movimiento de stock")
	assert.True(t, st.products["p1"].CurrentStock.Equal(dec("10")))
}

func TestRegisterReception_DestinoInvalido(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "p1", "0", "10", nil)
	_, receptions := newLedger(st)

	_, err := receptions.Register(context.Background(), "u1", "amine", dto.RegisterReceptionRequest{
		ProductID:        "p1",
		Destination:      "TO_MOON",
		QuantityReceived: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── reparación ────────────────────────────────────────────────────────────────

// Recepción a stock sin movimiento en el libro: la reparación recrea el
// movimiento y recalcula el materializado por replay.
func TestRepairStock_RecreaMovimientosYRecalcula(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "p1", "20", "999", nil) // materializado corrupto
	st.receptions = append(st.receptions, entity.Reception{
		ID:               "rec-1",
		Number:           "REC-2026-0001",
		Year:             2026,
		Destination:      entity.DestinationStock,
		ProductID:        "p1",
		QuantityReceived: dec("100"),
		CreatedAt:        time.Now().Add(-time.Hour),
	})
	ledger, _ := newLedger(st)

	stats, err := ledger.RepairStock(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ReceptionsFixed)
	assert.Equal(t, 1, stats.ProductsUpdated)
	assert.True(t, st.products["p1"].CurrentStock.Equal(dec("120")), "20 de apertura + 100 de la recepción")
	require.Len(t, st.movements, 1)
	assert.Equal(t, "rec-1", st.movements[0].DocumentID)
}

// Una segunda pasada no duplica nada.
func TestRepairStock_Idempotente(t *testing.T) {
	st := newLedgerState()
	seedProduct(st, "p1", "20", "0", nil)
	st.receptions = append(st.receptions, entity.Reception{
		ID:               "rec-1",
		Number:           "REC-2026-0001",
		Destination:      entity.DestinationStock,
		ProductID:        "p1",
		QuantityReceived: dec("100"),
		CreatedAt:        time.Now().Add(-time.Hour),
	})
	ledger, _ := newLedger(st)
	ctx := context.Background()

	_, err := ledger.RepairStock(ctx, "u1")
	require.NoError(t, err)
	stats, err := ledger.RepairStock(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.ReceptionsFixed, "el movimiento ya existe, no se recrea")
	assert.Len(t, st.movements, 1)
	assert.True(t, st.products["p1"].CurrentStock.Equal(dec("120")))
}
