package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de pago aceptados.
const (
	PaymentCash     = "CASH"
	PaymentCheque   = "CHEQUE"
	PaymentTransfer = "TRANSFER"
	PaymentDeposit  = "DEPOSIT"
)

// Payment representa un pago recibido de un cliente.
type Payment struct {
	ID          string
	Number      string
	Date        time.Time
	ClientID    string
	Amount      decimal.Decimal
	Mode        string
	Reference   string // número de cheque o de transferencia
	Bank        string
	ClosureYear *int
	CreatedBy   string
	CreatedAt   time.Time
}
