package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrCreditLimitExceeded la factura propuesta superaría el límite de crédito del cliente.
	ErrCreditLimitExceeded = errors.New("límite de crédito superado")
	// ErrCreditNoteBounds el monto de la nota de crédito supera el saldo restante de la factura origen.
	ErrCreditNoteBounds = errors.New("monto de nota de crédito fuera de límites")
	// ErrYearClosed el año contable ya fue cerrado.
	ErrYearClosed = errors.New("el año ya está cerrado")
	// ErrSchemaConflict la estructura física no puede reconciliarse de forma aditiva. Fatal en el arranque.
	ErrSchemaConflict = errors.New("conflicto de esquema no reparable")
)
