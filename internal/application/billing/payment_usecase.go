package billing

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

// PaymentUseCase registra pagos de clientes. Un pago no se imputa a una
// factura concreta: entra directo en la fórmula del saldo del cliente.
type PaymentUseCase struct {
	txRunner    TxRunner
	paymentRepo repository.PaymentRepository // lecturas fuera de workflow
	gate        *backup.Gate
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(txRunner TxRunner, paymentRepo repository.PaymentRepository, gate *backup.Gate) *PaymentUseCase {
	return &PaymentUseCase{txRunner: txRunner, paymentRepo: paymentRepo, gate: gate}
}

// List devuelve pagos filtrados por cliente y/o año.
func (uc *PaymentUseCase) List(ctx context.Context, clientID string, year, limit, offset int) ([]*entity.Payment, error) {
	return uc.paymentRepo.List(clientID, year, limit, offset)
}

// Register valida y persiste el pago con su entrada de auditoría.
func (uc *PaymentUseCase) Register(ctx context.Context, userID, username string, in dto.RegisterPaymentRequest) (*entity.Payment, error) {
	date, err := parseDocumentDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.ClientID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	switch in.Mode {
	case entity.PaymentCash, entity.PaymentCheque, entity.PaymentTransfer, entity.PaymentDeposit:
	default:
		return nil, domain.ErrInvalidInput
	}

	done := uc.gate.BeginWorkflow()
	defer done()

	now := time.Now()
	payment := &entity.Payment{
		ID:        uuid.New().String(),
		Date:      date,
		ClientID:  in.ClientID,
		Amount:    in.Amount,
		Mode:      in.Mode,
		Reference: in.Reference,
		Bank:      in.Bank,
		CreatedBy: userID,
		CreatedAt: now,
	}

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		client, err := r.Clients.GetByID(in.ClientID)
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
		if date.Year() <= lastClosed {
			return domain.ErrYearClosed
		}

		number, err := r.Payments.NextNumber(date.Year())
		if err != nil {
			return err
		}
		payment.Number = number
		if err := r.Payments.Create(payment); err != nil {
			return err
		}
		return r.Audit.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			UserID:    userID,
			Username:  username,
			Action:    "PAYMENT_REGISTERED",
			Details:   number + " " + in.Mode + " " + in.Amount.StringFixed(2),
			EntityRef: payment.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
