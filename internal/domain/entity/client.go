package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client representa un cliente de la unidad comercial con sus identificadores
// fiscales (RC, NIS, NIF, artículo de imposición) y su posición financiera.
// CarryForward es el saldo de apertura heredado del cierre del año anterior.
// CreditLimit en cero significa sin límite de crédito.
type Client struct {
	ID           string
	Code         string
	Name         string // razón social
	Address      string
	RC           string
	NIS          string
	NIF          string
	TaxArticle   string // article d'imposition
	Email        string
	Phone1       string
	Phone2       string
	BankAccount  string
	Bank         string
	Category     string
	CreditLimit  decimal.Decimal
	CarryForward decimal.Decimal // report N-1
	Active       bool
	CreatedBy    string
	CreatedAt    time.Time
}
