package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/finance"
	domstock "github.com/jhoicas/Comercial-api/internal/domain/stock"
)

// lastDocuments cuántos documentos recientes lleva la situación de cliente.
const lastDocuments = 10

// ReportUseCase consultas de solo lectura sobre una instantánea consistente.
type ReportUseCase struct {
	snapshots SnapshotRunner
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(snapshots SnapshotRunner) *ReportUseCase {
	return &ReportUseCase{snapshots: snapshots}
}

// ClientSituation devuelve la posición de un cliente: saldo desglosado más
// sus últimas facturas y pagos, todo leído de la misma instantánea.
func (uc *ReportUseCase) ClientSituation(ctx context.Context, clientID string) (*dto.ClientSituationResponse, error) {
	var resp *dto.ClientSituationResponse
	now := time.Now()

	err := uc.snapshots.RunSnapshot(ctx, func(r Repos) error {
		client, err := r.Clients.GetByID(clientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}

		lastClosed, err := r.Closures.LastClosedYear()
		if err != nil {
			return err
		}
		payments, err := r.Payments.SumForBalance(clientID, lastClosed, now)
		if err != nil {
			return err
		}
		creditNotes, err := r.CreditNotes.SumForBalance(clientID, lastClosed, now)
		if err != nil {
			return err
		}
		invoices, err := r.Invoices.SumForBalance(clientID, lastClosed, now)
		if err != nil {
			return err
		}
		breakdown := finance.Compute(client.CarryForward, payments, creditNotes, invoices)

		lastInvoices, err := r.Invoices.List(clientID, 0, lastDocuments, 0)
		if err != nil {
			return err
		}
		lastPayments, err := r.Payments.List(clientID, 0, lastDocuments, 0)
		if err != nil {
			return err
		}

		resp = &dto.ClientSituationResponse{
			ClientID:   client.ID,
			ClientName: client.Name,
			Balance: dto.BalanceResponse{
				ClientID:     client.ID,
				AsOf:         now.Format(time.RFC3339),
				CarryForward: breakdown.CarryForward,
				Payments:     breakdown.Payments,
				CreditNotes:  breakdown.CreditNotes,
				Invoices:     breakdown.Invoices,
				Balance:      breakdown.Balance,
			},
		}
		for _, inv := range lastInvoices {
			resp.LastInvoices = append(resp.LastInvoices, dto.InvoiceResponse{
				ID:       inv.ID,
				Number:   inv.Number,
				Year:     inv.Year,
				Date:     inv.Date.Format("2006-01-02"),
				ClientID: inv.ClientID,
				TotalHT:  inv.TotalHT,
				TotalTVA: inv.TotalTVA,
				TotalTTC: inv.TotalTTC,
				Status:   inv.Status,
			})
		}
		for _, p := range lastPayments {
			resp.LastPayments = append(resp.LastPayments, dto.PaymentResponse{
				ID:       p.ID,
				Number:   p.Number,
				Date:     p.Date.Format("2006-01-02"),
				ClientID: p.ClientID,
				Amount:   p.Amount,
				Mode:     p.Mode,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// DailySales ventas de un día: detalle por línea y acumulados por producto
// (día + año en curso).
func (uc *ReportUseCase) DailySales(ctx context.Context, day time.Time) (*dto.DailySalesResponse, error) {
	resp := &dto.DailySalesResponse{
		Date:     day.Format("2006-01-02"),
		TotalHT:  decimal.Zero,
		TotalTTC: decimal.Zero,
	}

	err := uc.snapshots.RunSnapshot(ctx, func(r Repos) error {
		lines, err := r.Analytics.DailySaleLines(day)
		if err != nil {
			return err
		}
		for _, l := range lines {
			resp.Lines = append(resp.Lines, dto.DailySaleLineResponse{
				InvoiceNumber: l.InvoiceNumber,
				ClientName:    l.ClientName,
				ProductCode:   l.ProductCode,
				ProductName:   l.ProductName,
				Quantity:      l.Quantity,
				UnitPrice:     l.UnitPrice,
				Amount:        l.Amount,
			})
			resp.TotalHT = resp.TotalHT.Add(l.Amount)
			resp.TotalTTC = resp.TotalTTC.Add(l.Amount.Add(l.Amount.Mul(l.TaxRate)))
		}

		stats, err := r.Analytics.DailyProductStats(day)
		if err != nil {
			return err
		}
		for _, s := range stats {
			resp.Products = append(resp.Products, dto.DailyProductStatResponse{
				ProductID:    s.ProductID,
				ProductCode:  s.ProductCode,
				ProductName:  s.ProductName,
				QuantityDay:  s.QuantityDay,
				QuantityYear: s.QuantityYear,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// NetRevenue cifra de negocio neta del periodo: HT facturado menos los avoirs
// ligados a esas facturas.
func (uc *ReportUseCase) NetRevenue(ctx context.Context, from, to time.Time) (*dto.NetRevenueResponse, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	resp := &dto.NetRevenueResponse{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
	}

	err := uc.snapshots.RunSnapshot(ctx, func(r Repos) error {
		invoiced, err := r.Analytics.InvoicedHT(from, to)
		if err != nil {
			return err
		}
		credited, err := r.Analytics.CreditedHT(from, to)
		if err != nil {
			return err
		}
		resp.InvoicedHT = invoiced
		resp.CreditedHT = credited
		resp.NetRevenue = invoiced.Sub(credited)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// StockReport niveles de todos los pools de stock con verificación por replay
// del libro: un pool inconsistente es candidato a reparación.
func (uc *ReportUseCase) StockReport(ctx context.Context) ([]dto.StockReportRowResponse, error) {
	var rows []dto.StockReportRowResponse

	err := uc.snapshots.RunSnapshot(ctx, func(r Repos) error {
		products, err := r.Products.List(false, 0, 0)
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.IsChild() {
				continue
			}
			delta, err := r.Movements.SumDeltas(p.ID, nil)
			if err != nil {
				return err
			}
			replayed := p.InitialStock.Add(delta)
			rows = append(rows, dto.StockReportRowResponse{
				ProductID:    p.ID,
				Code:         p.Code,
				Name:         p.Name,
				Unit:         p.Unit,
				CurrentStock: p.CurrentStock,
				Replayed:     replayed,
				Consistent:   p.CurrentStock.Equal(replayed),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MovementHistory histórico del libro de stock de un producto (resuelto al
// dueño del pool si es variante).
func (uc *ReportUseCase) MovementHistory(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	var rows []dto.MovementResponse

	err := uc.snapshots.RunSnapshot(ctx, func(r Repos) error {
		product, err := r.Products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		ownerID := domstock.OwnerID(product)

		movements, err := r.Movements.ListByProduct(ownerID, from, to, limit, offset)
		if err != nil {
			return err
		}
		for _, m := range movements {
			rows = append(rows, dto.MovementResponse{
				ID:          m.ID,
				ProductID:   m.ProductID,
				Kind:        m.Kind,
				Quantity:    m.Quantity,
				Reference:   m.Reference,
				StockBefore: m.StockBefore,
				StockAfter:  m.StockAfter,
				CreatedAt:   m.CreatedAt.Format(time.RFC3339),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
