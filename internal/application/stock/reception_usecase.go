package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// ReceptionUseCase registra recepciones de fábrica. Destino a stock genera el
// movimiento de entrada; destino a obra es consumo directo y no toca el
// agregado.
type ReceptionUseCase struct {
	txRunner    TxRunner
	ledger      *LedgerUseCase
	productRepo repository.ProductRepository
	gate        *backup.Gate
}

// NewReceptionUseCase construye el caso de uso.
func NewReceptionUseCase(txRunner TxRunner, ledger *LedgerUseCase, productRepo repository.ProductRepository, gate *backup.Gate) *ReceptionUseCase {
	return &ReceptionUseCase{txRunner: txRunner, ledger: ledger, productRepo: productRepo, gate: gate}
}

// Register valida y persiste la recepción con su movimiento de stock (si
// aplica) y la entrada de auditoría, todo en una transacción.
func (uc *ReceptionUseCase) Register(ctx context.Context, userID, username string, in dto.RegisterReceptionRequest) (*entity.Reception, error) {
	if in.ProductID == "" || !in.QuantityReceived.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	switch in.Destination {
	case entity.DestinationStock, entity.DestinationSite:
	default:
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	date := time.Now()
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = parsed
	}

	done := uc.gate.BeginWorkflow()
	defer done()

	now := time.Now()
	rec := &entity.Reception{
		ID:                uuid.New().String(),
		Year:              date.Year(),
		Date:              date,
		Driver:            in.Driver,
		TractorPlate:      in.TractorPlate,
		TrailerPlate:      in.TrailerPlate,
		Carrier:           in.Carrier,
		Destination:       in.Destination,
		SiteAddress:       in.SiteAddress,
		ProductID:         in.ProductID,
		QuantityAnnounced: in.QuantityAnnounced,
		QuantityReceived:  in.QuantityReceived,
		GapReason:         in.GapReason,
		CreatedBy:         userID,
		CreatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		number, err := r.Receptions.NextNumber(rec.Year)
		if err != nil {
			return err
		}
		rec.Number = number
		if err := r.Receptions.Create(rec); err != nil {
			return err
		}
		if err := uc.ledger.RecordInTx(r.Movements, r.Products, product, entity.MovementReception,
			in.QuantityReceived, in.Destination, number, rec.ID, userID, now); err != nil {
			return err
		}
		return r.Audit.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			UserID:    userID,
			Username:  username,
			Action:    "RECEPTION_REGISTERED",
			Details:   "qty " + in.QuantityReceived.String() + " " + in.Destination,
			EntityRef: rec.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
