package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
	domstock "github.com/jhoicas/Comercial-api/internal/domain/stock"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

// LedgerUseCase es el libro de stock: registra movimientos de forma
// transaccional con bloqueo de fila (SELECT FOR UPDATE), resuelve la
// delegación padre/hijo y recalcula niveles por replay del histórico.
type LedgerUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	gate         *backup.Gate
	log          *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	gate *backup.Gate,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		gate:         gate,
		log:          log,
	}
}

// MovementInput entrada para registrar un movimiento suelto (recepción o
// corrección manual). Quantity lleva signo. Las salidas por factura y las
// devoluciones por avoir solo entran por los orquestadores de facturación.
type MovementInput struct {
	ProductID   string
	Kind        string
	Quantity    decimal.Decimal
	Destination string
	Reference   string
	DocumentID  string
	UserID      string
}

// CurrentStock devuelve el nivel actual del producto, leído del dueño del
// pool tras la resolución padre/hijo.
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, productID string) (decimal.Decimal, error) {
	owner, err := uc.stockOwner(productID)
	if err != nil {
		return decimal.Zero, err
	}
	return owner.CurrentStock, nil
}

// RecomputeFromHistory reconstruye el nivel del producto por replay completo
// del histórico de movimientos hasta asOf. No modifica nada; es la referencia
// para auditorías de consistencia.
func (uc *LedgerUseCase) RecomputeFromHistory(ctx context.Context, productID string, asOf time.Time) (decimal.Decimal, error) {
	owner, err := uc.stockOwner(productID)
	if err != nil {
		return decimal.Zero, err
	}
	movements, err := uc.movementRepo.ListByProductUntil(owner.ID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	deref := make([]entity.StockMovement, 0, len(movements))
	for _, m := range movements {
		deref = append(deref, *m)
	}
	return domstock.Replay(owner.InitialStock, deref), nil
}

// RegisterMovement registra un movimiento suelto en su propia transacción.
// Solo admite RECEPTION y MANUAL_ADJUST; una corrección manual es privilegiada
// y no pasa el control de disponibilidad.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, in MovementInput, username string) error {
	if in.ProductID == "" || in.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	switch in.Kind {
	case entity.MovementReception, entity.MovementManual:
	default:
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	done := uc.gate.BeginWorkflow()
	defer done()

	now := time.Now()
	return uc.txRunner.Run(ctx, func(r Repos) error {
		if err := uc.RecordInTx(r.Movements, r.Products, product, in.Kind, in.Quantity, in.Destination, in.Reference, in.DocumentID, in.UserID, now); err != nil {
			return err
		}
		return r.Audit.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			UserID:    in.UserID,
			Username:  username,
			Action:    "STOCK_MOVEMENT_" + in.Kind,
			Details:   "qty " + in.Quantity.String(),
			EntityRef: in.ProductID,
			CreatedAt: now,
		})
	})
}

// RecordInTx registra un movimiento usando los repositorios del caller (misma
// transacción). Resuelve el dueño del pool, bloquea su fila y rechaza con
// ErrInsufficientStock cualquier decremento que deje el agregado en negativo,
// salvo correcciones manuales.
func (uc *LedgerUseCase) RecordInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	kind string,
	quantity decimal.Decimal,
	destination, reference, documentID, userID string,
	now time.Time,
) error {
	ownerID := domstock.OwnerID(product)

	// Una recepción directa a obra no toca el agregado; queda solo el registro
	// de la recepción para reportes.
	if kind == entity.MovementReception && destination == entity.DestinationSite {
		return nil
	}

	before, err := productRepo.GetStockForUpdate(ownerID)
	if err != nil {
		return err
	}
	after := before.Add(quantity)
	if after.IsNegative() && kind != entity.MovementManual {
		return domain.ErrInsufficientStock
	}

	if err := productRepo.UpdateStock(ownerID, after); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   ownerID,
		Kind:        kind,
		Quantity:    quantity,
		Destination: destination,
		Reference:   domstock.ViaReference(reference, product),
		DocumentID:  documentID,
		StockBefore: before,
		StockAfter:  after,
		CreatedBy:   userID,
		CreatedAt:   now,
	}
	return movRepo.Create(mov)
}

// stockOwner carga el producto y, si es variante, su padre.
func (uc *LedgerUseCase) stockOwner(productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsChild() {
		return product, nil
	}
	parent, err := uc.productRepo.GetByID(*product.ParentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		// Enlace roto: degradar al propio producto en lugar de fallar la lectura.
		uc.log.Warn().Str("product_id", productID).Msg("parent_id roto, usando stock propio")
		return product, nil
	}
	return parent, nil
}
