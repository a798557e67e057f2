package closing

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/backup"
	"github.com/jhoicas/Comercial-api/internal/application/billing"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/finance"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

// Estados del workflow de cierre anual.
const (
	stateArchiving    = "ARCHIVING"
	stateCarryForward = "CARRY_FORWARD_COMPUTED"
	statePrepared     = "PREPARED"
)

// ClosingUseCase ejecuta el cierre anual: archiva los documentos del año,
// congela el saldo de cada cliente como report N-1 del año siguiente y deja
// instantáneas JSON de stocks y saldos al 31/12. Todo en una transacción;
// reintentar un año ya cerrado devuelve la instantánea almacenada.
type ClosingUseCase struct {
	txRunner    billing.TxRunner
	closureRepo repository.ClosureRepository
	gate        *backup.Gate
	log         *logger.Logger
}

// NewClosingUseCase construye el caso de uso.
func NewClosingUseCase(txRunner billing.TxRunner, closureRepo repository.ClosureRepository, gate *backup.Gate, log *logger.Logger) *ClosingUseCase {
	return &ClosingUseCase{txRunner: txRunner, closureRepo: closureRepo, gate: gate, log: log}
}

// clientSnapshot entrada del snapshot de saldos del cierre.
type clientSnapshot struct {
	ClientID     string          `json:"client_id"`
	Name         string          `json:"name"`
	CarryForward decimal.Decimal `json:"carry_forward"`
	Payments     decimal.Decimal `json:"payments"`
	CreditNotes  decimal.Decimal `json:"credit_notes"`
	Invoices     decimal.Decimal `json:"invoices"`
	Balance      decimal.Decimal `json:"balance"`
}

// productSnapshot entrada del snapshot de stocks del cierre.
type productSnapshot struct {
	ProductID string          `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Stock     decimal.Decimal `json:"stock"`
}

// Close cierra el año indicado. Solo se puede cerrar un año terminado y
// posterior al último cierre; un año ya cerrado es idempotente.
func (uc *ClosingUseCase) Close(ctx context.Context, userID, username string, year int) (*dto.ClosingResponse, error) {
	if existing, err := uc.closureRepo.GetByYear(year); err != nil {
		return nil, err
	} else if existing != nil {
		return storedResponse(existing)
	}

	lastClosed, err := uc.closureRepo.LastClosedYear()
	if err != nil {
		return nil, err
	}
	if year <= lastClosed {
		return nil, domain.ErrYearClosed
	}
	if year >= time.Now().Year() {
		return nil, domain.ErrInvalidInput
	}

	state := stateArchiving
	now := time.Now()
	yearEnd := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	resp := &dto.ClosingResponse{
		Year:          year,
		ClosedAt:      now.Format(time.RFC3339),
		CarryForwards: make(map[string]decimal.Decimal),
	}

	// El cierre toca todas las tablas vivas; se ejecuta en quiescencia total
	// para no cruzarse con facturas o pagos en vuelo.
	err = uc.gate.Quiescent(ctx, func() error {
		return uc.txRunner.Run(ctx, func(r billing.Repos) error {
			if _, err := r.Invoices.StampClosure(year); err != nil {
				return err
			}
			if _, err := r.CreditNotes.StampClosure(year); err != nil {
				return err
			}
			if _, err := r.Payments.StampClosure(year); err != nil {
				return err
			}

			clients, err := r.Clients.List(false, 0, 0)
			if err != nil {
				return err
			}
			balances := make([]clientSnapshot, 0, len(clients))
			for _, c := range clients {
				payments, err := r.Payments.SumForBalance(c.ID, lastClosed, yearEnd)
				if err != nil {
					return err
				}
				creditNotes, err := r.CreditNotes.SumForBalance(c.ID, lastClosed, yearEnd)
				if err != nil {
					return err
				}
				invoices, err := r.Invoices.SumForBalance(c.ID, lastClosed, yearEnd)
				if err != nil {
					return err
				}
				breakdown := finance.Compute(c.CarryForward, payments, creditNotes, invoices)
				if err := r.Clients.UpdateCarryForward(c.ID, breakdown.Balance); err != nil {
					return err
				}
				balances = append(balances, clientSnapshot{
					ClientID:     c.ID,
					Name:         c.Name,
					CarryForward: breakdown.CarryForward,
					Payments:     breakdown.Payments,
					CreditNotes:  breakdown.CreditNotes,
					Invoices:     breakdown.Invoices,
					Balance:      breakdown.Balance,
				})
				resp.CarryForwards[c.ID] = breakdown.Balance
			}
			resp.ClientsClosed = len(balances)
			state = stateCarryForward

			// Stock de cada dueño de pool al 31/12, por replay del libro.
			products, err := r.Products.List(false, 0, 0)
			if err != nil {
				return err
			}
			stocks := make([]productSnapshot, 0, len(products))
			for _, p := range products {
				if p.IsChild() {
					continue
				}
				delta, err := r.Movements.SumDeltas(p.ID, &yearEnd)
				if err != nil {
					return err
				}
				stocks = append(stocks, productSnapshot{
					ProductID: p.ID,
					Code:      p.Code,
					Name:      p.Name,
					Stock:     p.InitialStock.Add(delta),
				})
			}

			stocksJSON, err := json.Marshal(stocks)
			if err != nil {
				return err
			}
			balancesJSON, err := json.Marshal(balances)
			if err != nil {
				return err
			}
			closure := &entity.Closure{
				ID:               uuid.New().String(),
				Year:             year,
				ClosedAt:         now,
				StocksSnapshot:   stocksJSON,
				BalancesSnapshot: balancesJSON,
				CreatedBy:        userID,
				CreatedAt:        now,
			}
			if err := r.Closures.Create(closure); err != nil {
				return err
			}
			state = statePrepared

			return r.Audit.Create(&entity.AuditLog{
				ID:        uuid.New().String(),
				UserID:    userID,
				Username:  username,
				Action:    "ANNUAL_CLOSING",
				Details:   "cierre del año " + strconv.Itoa(year),
				EntityRef: closure.ID,
				CreatedAt: now,
			})
		})
	})
	if err != nil {
		uc.log.Error().Int("year", year).Str("state", state).Err(err).Msg("cierre anual abortado")
		return nil, err
	}

	uc.log.Info().Int("year", year).Int("clients", resp.ClientsClosed).Msg("cierre anual completado")
	return resp, nil
}

// storedResponse reconstruye la respuesta desde la instantánea almacenada.
func storedResponse(closure *entity.Closure) (*dto.ClosingResponse, error) {
	var balances []clientSnapshot
	if err := json.Unmarshal(closure.BalancesSnapshot, &balances); err != nil {
		return nil, err
	}
	resp := &dto.ClosingResponse{
		Year:          closure.Year,
		AlreadyClosed: true,
		ClientsClosed: len(balances),
		ClosedAt:      closure.ClosedAt.Format(time.RFC3339),
		CarryForwards: make(map[string]decimal.Decimal, len(balances)),
	}
	for _, b := range balances {
		resp.CarryForwards[b.ClientID] = b.Balance
	}
	return resp, nil
}
