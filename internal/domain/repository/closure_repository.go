package repository

import "github.com/jhoicas/Comercial-api/internal/domain/entity"

// ClosureRepository define el puerto de persistencia para los cierres anuales.
type ClosureRepository interface {
	Create(closure *entity.Closure) error
	GetByYear(year int) (*entity.Closure, error)
	// LastClosedYear devuelve el último año cerrado, o 0 si nunca se cerró.
	LastClosedYear() (int, error)
	List(limit, offset int) ([]*entity.Closure, error)
}
