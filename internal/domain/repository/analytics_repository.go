package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySaleLineRow línea facturada en un día, ya unida a cliente y producto.
type DailySaleLineRow struct {
	InvoiceNumber string
	ClientName    string
	ProductID     string
	ProductCode   string
	ProductName   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Amount        decimal.Decimal
	TaxRate       decimal.Decimal
}

// DailyProductStatRow cantidades vendidas de un producto en el día y
// acumuladas desde el 1 de enero.
type DailyProductStatRow struct {
	ProductID    string
	ProductCode  string
	ProductName  string
	QuantityDay  decimal.Decimal
	QuantityYear decimal.Decimal
}

// AnalyticsRepository consultas de agregación para reportes. Solo lectura;
// se ejecuta dentro de la instantánea de un reporte.
type AnalyticsRepository interface {
	DailySaleLines(day time.Time) ([]*DailySaleLineRow, error)
	DailyProductStats(day time.Time) ([]*DailyProductStatRow, error)
	// InvoicedHT agrega el HT facturado en [from, to].
	InvoicedHT(from, to time.Time) (decimal.Decimal, error)
	// CreditedHT agrega el HT de los avoirs ligados a facturas de [from, to].
	CreditedHT(from, to time.Time) (decimal.Decimal, error)
}
