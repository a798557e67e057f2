package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/finance"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// BalanceUseCase es el motor de saldos: evalúa la fórmula cerrada del saldo
// de un cliente sobre los documentos del periodo en curso y aplica la
// política de límite de crédito.
type BalanceUseCase struct {
	clientRepo     repository.ClientRepository
	invoiceRepo    repository.InvoiceRepository
	creditNoteRepo repository.CreditNoteRepository
	paymentRepo    repository.PaymentRepository
	closureRepo    repository.ClosureRepository
}

// NewBalanceUseCase construye el caso de uso.
func NewBalanceUseCase(
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
	creditNoteRepo repository.CreditNoteRepository,
	paymentRepo repository.PaymentRepository,
	closureRepo repository.ClosureRepository,
) *BalanceUseCase {
	return &BalanceUseCase{
		clientRepo:     clientRepo,
		invoiceRepo:    invoiceRepo,
		creditNoteRepo: creditNoteRepo,
		paymentRepo:    paymentRepo,
		closureRepo:    closureRepo,
	}
}

// ComputeBalance evalúa Saldo = Report N-1 + Σ Pagos + Σ Avoirs - Σ Facturas
// hasta asOf. El alcance son los documentos posteriores al último año cerrado;
// lo anterior vive dentro del report N-1.
func (uc *BalanceUseCase) ComputeBalance(ctx context.Context, clientID string, asOf time.Time) (finance.Breakdown, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return finance.Breakdown{}, err
	}
	if client == nil {
		return finance.Breakdown{}, domain.ErrNotFound
	}
	return uc.computeWith(client, asOf, uc.invoiceRepo, uc.creditNoteRepo, uc.paymentRepo, uc.closureRepo)
}

// CheckCreditLimit decide si una factura propuesta cabe en el límite del
// cliente. Límite cero significa sin límite. Verificación obligatoria antes
// de confirmar una factura; el orquestador aborta si la decisión es Blocked.
func (uc *BalanceUseCase) CheckCreditLimit(ctx context.Context, clientID string, proposedTTC decimal.Decimal) (finance.Decision, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return finance.Decision{}, err
	}
	if client == nil {
		return finance.Decision{}, domain.ErrNotFound
	}
	breakdown, err := uc.computeWith(client, time.Now(), uc.invoiceRepo, uc.creditNoteRepo, uc.paymentRepo, uc.closureRepo)
	if err != nil {
		return finance.Decision{}, err
	}
	return finance.CheckCreditLimit(breakdown, client.CreditLimit, proposedTTC), nil
}

// ComputeBalanceWith evalúa la fórmula con repositorios del caller (misma
// transacción). Lo usa el orquestador para re-validar el crédito dentro de la
// tx de la factura, sobre una instantánea consistente.
func (uc *BalanceUseCase) ComputeBalanceWith(
	client *entity.Client,
	asOf time.Time,
	invoiceRepo repository.InvoiceRepository,
	creditNoteRepo repository.CreditNoteRepository,
	paymentRepo repository.PaymentRepository,
	closureRepo repository.ClosureRepository,
) (finance.Breakdown, error) {
	return uc.computeWith(client, asOf, invoiceRepo, creditNoteRepo, paymentRepo, closureRepo)
}

func (uc *BalanceUseCase) computeWith(
	client *entity.Client,
	asOf time.Time,
	invoiceRepo repository.InvoiceRepository,
	creditNoteRepo repository.CreditNoteRepository,
	paymentRepo repository.PaymentRepository,
	closureRepo repository.ClosureRepository,
) (finance.Breakdown, error) {
	lastClosed, err := closureRepo.LastClosedYear()
	if err != nil {
		return finance.Breakdown{}, err
	}
	payments, err := paymentRepo.SumForBalance(client.ID, lastClosed, asOf)
	if err != nil {
		return finance.Breakdown{}, err
	}
	creditNotes, err := creditNoteRepo.SumForBalance(client.ID, lastClosed, asOf)
	if err != nil {
		return finance.Breakdown{}, err
	}
	invoices, err := invoiceRepo.SumForBalance(client.ID, lastClosed, asOf)
	if err != nil {
		return finance.Breakdown{}, err
	}
	return finance.Compute(client.CarryForward, payments, creditNotes, invoices), nil
}
