package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	List(clientID string, year int, limit, offset int) ([]*entity.Payment, error)
	NextNumber(year int) (string, error)
	SumForBalance(clientID string, afterYear int, asOf time.Time) (decimal.Decimal, error)
	StampClosure(year int) (int64, error)
}
