package entity

import (
	"encoding/json"
	"time"
)

// Closure registra el cierre anual: instantáneas JSON de stocks y saldos al
// 31/12 del año cerrado. Una fila por año; reintentar un cierre ya hecho
// devuelve la instantánea almacenada sin recalcular nada.
type Closure struct {
	ID               string
	Year             int
	ClosedAt         time.Time
	StocksSnapshot   json.RawMessage
	BalancesSnapshot json.RawMessage
	CreatedBy        string
	CreatedAt        time.Time
}
