package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// Los clientes nunca se borran: al cerrar el año o darlos de baja se archivan.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	List(activeOnly bool, limit, offset int) ([]*entity.Client, error)
	Update(client *entity.Client) error
	Archive(id string) error
	// UpdateCarryForward fija el saldo de apertura (report N-1) tras el cierre anual.
	UpdateCarryForward(id string, amount decimal.Decimal) error
}
