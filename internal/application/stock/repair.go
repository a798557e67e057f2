package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// RepairStats estadísticas de una pasada de reparación de stock.
type RepairStats struct {
	ReceptionsFixed int
	ProductsUpdated int
}

// RepairStock repara el stock materializado en una sola transacción:
// 1) recrea los movimientos de recepción a stock que falten en el libro,
// 2) recalcula current_stock de cada dueño de pool por replay del histórico.
// Es la contraparte de stock del auto-reparado de esquema: el libro es la
// fuente de verdad y el nivel materializado se reconstruye desde él.
func (uc *LedgerUseCase) RepairStock(ctx context.Context, userID string) (RepairStats, error) {
	var stats RepairStats

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		receptions, err := r.Receptions.ListToStock()
		if err != nil {
			return err
		}
		for _, rec := range receptions {
			exists, err := r.Movements.ExistsForDocument(rec.ID, entity.MovementReception)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			product, err := r.Products.GetByID(rec.ProductID)
			if err != nil || product == nil {
				continue // recepción huérfana; se reporta por auditoría externa
			}
			if err := uc.RecordInTx(r.Movements, r.Products, product, entity.MovementReception,
				rec.QuantityReceived, entity.DestinationStock, rec.Number, rec.ID, userID, rec.CreatedAt); err != nil {
				return err
			}
			stats.ReceptionsFixed++
		}

		// Replay por producto dueño de pool; las variantes no tienen contador propio.
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
			if err := r.Products.UpdateStock(p.ID, p.InitialStock.Add(delta)); err != nil {
				return err
			}
			stats.ProductsUpdated++
		}

		return r.Audit.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			UserID:    userID,
			Action:    "STOCK_REPAIR",
			Details:   "replay completo del libro de stock",
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return RepairStats{}, err
	}
	uc.log.Info().
		Int("receptions_fixed", stats.ReceptionsFixed).
		Int("products_updated", stats.ProductsUpdated).
		Msg("reparación de stock completada")
	return stats, nil
}
