package backup

import (
	"context"
	"sync"
)

// Gate expone el punto de quiescencia para el subsistema de respaldo: un
// instante en el que ningún workflow está en vuelo y copiar la base completa
// es seguro. Los workflows toman el lado de lectura; Quiescent toma el de
// escritura y por tanto espera a que terminen los que están en curso y frena
// los nuevos mientras dura la copia.
type Gate struct {
	mu sync.RWMutex
}

// NewGate construye la compuerta.
func NewGate() *Gate {
	return &Gate{}
}

// BeginWorkflow marca el inicio de un workflow. Devuelve la función de cierre,
// que debe llamarse con defer al terminar (con o sin error).
func (g *Gate) BeginWorkflow() func() {
	g.mu.RLock()
	return g.mu.RUnlock
}

// Quiescent ejecuta fn en un punto de quiescencia. Respeta la cancelación del
// contexto solo antes de adquirir la compuerta: una vez dentro, fn corre hasta
// completarse (no hay cancelación a mitad de copia).
func (g *Gate) Quiescent(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
