package billing_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional: el TxRunner toma una copia
// del estado antes de ejecutar el workflow y la restaura si este falla. Así
// los tests verifican de verdad el todo-o-nada de los orquestadores.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	clients      map[string]entity.Client
	products     map[string]entity.Product
	invoices     map[string]entity.Invoice
	invoiceLines []entity.InvoiceLine
	notes        map[string]entity.CreditNote
	noteLines    []entity.CreditNoteLine
	payments     map[string]entity.Payment
	movements    []entity.StockMovement
	closures     map[int]entity.Closure
	audit        []entity.AuditLog
	invSeq       int
	noteSeq      int
	paySeq       int
}

func newMemState() *memState {
	return &memState{
		clients:  make(map[string]entity.Client),
		products: make(map[string]entity.Product),
		invoices: make(map[string]entity.Invoice),
		notes:    make(map[string]entity.CreditNote),
		payments: make(map[string]entity.Payment),
		closures: make(map[int]entity.Closure),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.notes {
		c.notes[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.closures {
		c.closures[k] = v
	}
	c.invoiceLines = append([]entity.InvoiceLine(nil), s.invoiceLines...)
	c.noteLines = append([]entity.CreditNoteLine(nil), s.noteLines...)
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	c.audit = append([]entity.AuditLog(nil), s.audit...)
	c.invSeq, c.noteSeq, c.paySeq = s.invSeq, s.noteSeq, s.paySeq
	return c
}

func reposFor(s *memState) billing.Repos {
	return billing.Repos{
		Clients:     &memClients{s},
		Products:    &memProducts{s},
		Invoices:    &memInvoices{s},
		CreditNotes: &memNotes{s},
		Payments:    &memPayments{s},
		Movements:   &memMovements{s},
		Closures:    &memClosures{s},
		Audit:       &memAudit{s},
	}
}

type memTxRunner struct{ st *memState }

func (t *memTxRunner) Run(ctx context.Context, fn func(r billing.Repos) error) error {
	snapshot := t.st.clone()
	if err := fn(reposFor(t.st)); err != nil {
		*t.st = *snapshot
		return err
	}
	return nil
}

// ── clients ───────────────────────────────────────────────────────────────────

type memClients struct{ st *memState }

func (m *memClients) Create(c *entity.Client) error {
	m.st.clients[c.ID] = *c
	return nil
}

func (m *memClients) GetByID(id string) (*entity.Client, error) {
	c, ok := m.st.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memClients) List(activeOnly bool, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	for id := range m.st.clients {
		c := m.st.clients[id]
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, &c)
	}
	return out, nil
}

func (m *memClients) Update(c *entity.Client) error {
	m.st.clients[c.ID] = *c
	return nil
}

func (m *memClients) Archive(id string) error {
	c, ok := m.st.clients[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Active = false
	m.st.clients[id] = c
	return nil
}

func (m *memClients) UpdateCarryForward(id string, amount decimal.Decimal) error {
	c, ok := m.st.clients[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.CarryForward = amount
	m.st.clients[id] = c
	return nil
}

// ── products ──────────────────────────────────────────────────────────────────

type memProducts struct{ st *memState }

func (m *memProducts) Create(p *entity.Product) error {
	m.st.products[p.ID] = *p
	return nil
}

func (m *memProducts) GetByID(id string) (*entity.Product, error) {
	p, ok := m.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memProducts) List(activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for id := range m.st.products {
		p := m.st.products[id]
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

func (m *memProducts) Update(p *entity.Product) error {
	m.st.products[p.ID] = *p
	return nil
}

func (m *memProducts) ListChildren(parentID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for id := range m.st.products {
		p := m.st.products[id]
		if p.ParentID != nil && *p.ParentID == parentID {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (m *memProducts) GetStockForUpdate(id string) (decimal.Decimal, error) {
	p, ok := m.st.products[id]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return p.CurrentStock, nil
}

func (m *memProducts) UpdateStock(id string, quantity decimal.Decimal) error {
	p, ok := m.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = quantity
	m.st.products[id] = p
	return nil
}

func (m *memProducts) UpdateInitialStock(id string, quantity decimal.Decimal) error {
	p, ok := m.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.InitialStock = quantity
	m.st.products[id] = p
	return nil
}

func (m *memProducts) UpdatePrice(id string, newPrice decimal.Decimal, referenceNote, userID string) error {
	p, ok := m.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Price = newPrice
	m.st.products[id] = p
	return nil
}

// ── invoices ──────────────────────────────────────────────────────────────────

type memInvoices struct{ st *memState }

func (m *memInvoices) Create(inv *entity.Invoice) error {
	m.st.invoices[inv.ID] = *inv
	return nil
}

func (m *memInvoices) CreateLine(line *entity.InvoiceLine) error {
	m.st.invoiceLines = append(m.st.invoiceLines, *line)
	return nil
}

func (m *memInvoices) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := m.st.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (m *memInvoices) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return m.GetByID(id)
}

func (m *memInvoices) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	var out []*entity.InvoiceLine
	for i := range m.st.invoiceLines {
		if m.st.invoiceLines[i].InvoiceID == invoiceID {
			l := m.st.invoiceLines[i]
			out = append(out, &l)
		}
	}
	return out, nil
}

func (m *memInvoices) List(clientID string, year, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for id := range m.st.invoices {
		inv := m.st.invoices[id]
		if clientID != "" && inv.ClientID != clientID {
			continue
		}
		if year != 0 && inv.Year != year {
			continue
		}
		out = append(out, &inv)
	}
	return out, nil
}

func (m *memInvoices) UpdateStatus(id, status string) error {
	inv, ok := m.st.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	m.st.invoices[id] = inv
	return nil
}

func (m *memInvoices) NextNumber(year int) (string, error) {
	m.st.invSeq++
	return fmt.Sprintf("FAC-%d-%04d", year, m.st.invSeq), nil
}

func (m *memInvoices) SumForBalance(clientID string, afterYear int, asOf time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, inv := range m.st.invoices {
		if inv.ClientID == clientID && inv.Year > afterYear && !inv.Date.After(asOf) {
			total = total.Add(inv.TotalTTC)
		}
	}
	return total, nil
}

func (m *memInvoices) StampClosure(year int) (int64, error) {
	var n int64
	for id, inv := range m.st.invoices {
		if inv.Year <= year && inv.ClosureYear == nil {
			y := year
			inv.ClosureYear = &y
			m.st.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

// ── credit notes ──────────────────────────────────────────────────────────────

type memNotes struct{ st *memState }

func (m *memNotes) Create(note *entity.CreditNote) error {
	m.st.notes[note.ID] = *note
	return nil
}

func (m *memNotes) CreateLine(line *entity.CreditNoteLine) error {
	m.st.noteLines = append(m.st.noteLines, *line)
	return nil
}

func (m *memNotes) GetByID(id string) (*entity.CreditNote, error) {
	n, ok := m.st.notes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (m *memNotes) GetLines(creditNoteID string) ([]*entity.CreditNoteLine, error) {
	var out []*entity.CreditNoteLine
	for i := range m.st.noteLines {
		if m.st.noteLines[i].CreditNoteID == creditNoteID {
			l := m.st.noteLines[i]
			out = append(out, &l)
		}
	}
	return out, nil
}

func (m *memNotes) ListByInvoice(invoiceID string) ([]*entity.CreditNote, error) {
	var out []*entity.CreditNote
	for id := range m.st.notes {
		n := m.st.notes[id]
		if n.InvoiceID == invoiceID {
			out = append(out, &n)
		}
	}
	return out, nil
}

func (m *memNotes) List(clientID string, year, limit, offset int) ([]*entity.CreditNote, error) {
	var out []*entity.CreditNote
	for id := range m.st.notes {
		n := m.st.notes[id]
		if clientID != "" && n.ClientID != clientID {
			continue
		}
		if year != 0 && n.Year != year {
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}

func (m *memNotes) NextNumber(year int) (string, error) {
	m.st.noteSeq++
	return fmt.Sprintf("AVR-%d-%04d", year, m.st.noteSeq), nil
}

func (m *memNotes) SumByInvoice(invoiceID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, n := range m.st.notes {
		if n.InvoiceID == invoiceID {
			total = total.Add(n.TotalTTC)
		}
	}
	return total, nil
}

func (m *memNotes) SumForBalance(clientID string, afterYear int, asOf time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, n := range m.st.notes {
		if n.ClientID == clientID && n.Year > afterYear && !n.Date.After(asOf) {
			total = total.Add(n.TotalTTC)
		}
	}
	return total, nil
}

func (m *memNotes) StampClosure(year int) (int64, error) {
	var cnt int64
	for id, n := range m.st.notes {
		if n.Year <= year && n.ClosureYear == nil {
			y := year
			n.ClosureYear = &y
			m.st.notes[id] = n
			cnt++
		}
	}
	return cnt, nil
}

// ── payments ──────────────────────────────────────────────────────────────────

type memPayments struct{ st *memState }

func (m *memPayments) Create(p *entity.Payment) error {
	m.st.payments[p.ID] = *p
	return nil
}

func (m *memPayments) GetByID(id string) (*entity.Payment, error) {
	p, ok := m.st.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memPayments) List(clientID string, year, limit, offset int) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for id := range m.st.payments {
		p := m.st.payments[id]
		if clientID != "" && p.ClientID != clientID {
			continue
		}
		if year != 0 && p.Date.Year() != year {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

func (m *memPayments) NextNumber(year int) (string, error) {
	m.st.paySeq++
	return fmt.Sprintf("PAY-%d-%04d", year, m.st.paySeq), nil
}

func (m *memPayments) SumForBalance(clientID string, afterYear int, asOf time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.st.payments {
		if p.ClientID == clientID && p.Date.Year() > afterYear && !p.Date.After(asOf) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (m *memPayments) StampClosure(year int) (int64, error) {
	var cnt int64
	for id, p := range m.st.payments {
		if p.Date.Year() <= year && p.ClosureYear == nil {
			y := year
			p.ClosureYear = &y
			m.st.payments[id] = p
			cnt++
		}
	}
	return cnt, nil
}

// ── stock movements ───────────────────────────────────────────────────────────

type memMovements struct{ st *memState }

func (m *memMovements) Create(mv *entity.StockMovement) error {
	m.st.movements = append(m.st.movements, *mv)
	return nil
}

func (m *memMovements) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range m.st.movements {
		mv := m.st.movements[i]
		if mv.ProductID != productID {
			continue
		}
		if from != nil && mv.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && mv.CreatedAt.After(*to) {
			continue
		}
		out = append(out, &mv)
	}
	return out, nil
}

func (m *memMovements) ListByProductUntil(productID string, asOf time.Time) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range m.st.movements {
		mv := m.st.movements[i]
		if mv.ProductID == productID && !mv.CreatedAt.After(asOf) {
			out = append(out, &mv)
		}
	}
	return out, nil
}

func (m *memMovements) SumDeltas(productID string, asOf *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, mv := range m.st.movements {
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

func (m *memMovements) ExistsForDocument(documentID, kind string) (bool, error) {
	for _, mv := range m.st.movements {
		if mv.DocumentID == documentID && mv.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

// ── closures ──────────────────────────────────────────────────────────────────

type memClosures struct{ st *memState }

func (m *memClosures) Create(c *entity.Closure) error {
	if _, exists := m.st.closures[c.Year]; exists {
		return domain.ErrYearClosed
	}
	m.st.closures[c.Year] = *c
	return nil
}

func (m *memClosures) GetByYear(year int) (*entity.Closure, error) {
	c, ok := m.st.closures[year]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memClosures) LastClosedYear() (int, error) {
	last := 0
	for year := range m.st.closures {
		if year > last {
			last = year
		}
	}
	return last, nil
}

func (m *memClosures) List(limit, offset int) ([]*entity.Closure, error) {
	var out []*entity.Closure
	for year := range m.st.closures {
		c := m.st.closures[year]
		out = append(out, &c)
	}
	return out, nil
}

// ── audit ─────────────────────────────────────────────────────────────────────

type memAudit struct{ st *memState }

func (m *memAudit) Create(e *entity.AuditLog) error {
	m.st.audit = append(m.st.audit, *e)
	return nil
}

func (m *memAudit) List(limit, offset int) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for i := range m.st.audit {
		e := m.st.audit[i]
		out = append(out, &e)
	}
	return out, nil
}

func auditActions(s *memState) []string {
	out := make([]string, 0, len(s.audit))
	for _, e := range s.audit {
		out = append(out, e.Action)
	}
	return out
}
