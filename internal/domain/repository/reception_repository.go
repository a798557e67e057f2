package repository

import "github.com/jhoicas/Comercial-api/internal/domain/entity"

// ReceptionRepository define el puerto de persistencia para Reception.
type ReceptionRepository interface {
	Create(reception *entity.Reception) error
	GetByID(id string) (*entity.Reception, error)
	List(year int, limit, offset int) ([]*entity.Reception, error)
	NextNumber(year int) (string, error)
	// ListToStock devuelve todas las recepciones con destino a stock (reparación de movimientos faltantes).
	ListToStock() ([]*entity.Reception, error)
}
