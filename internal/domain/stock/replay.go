package stock

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// Replay recalcula el nivel de stock desde el histórico: stock de apertura más
// la suma de deltas en orden temporal. Es la fuente de verdad para auditorías
// de consistencia y para la reparación de stock.
func Replay(initial decimal.Decimal, movements []entity.StockMovement) decimal.Decimal {
	sorted := make([]entity.StockMovement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	total := initial
	for _, m := range sorted {
		total = total.Add(m.Quantity)
	}
	return total
}
