package dto

import "github.com/shopspring/decimal"

// ClientSituationResponse posición completa de un cliente: saldo desglosado
// más sus últimos documentos.
type ClientSituationResponse struct {
	ClientID     string            `json:"client_id"`
	ClientName   string            `json:"client_name"`
	Balance      BalanceResponse   `json:"balance"`
	LastInvoices []InvoiceResponse `json:"last_invoices"`
	LastPayments []PaymentResponse `json:"last_payments"`
}

// DailySaleLineResponse línea facturada en el día.
type DailySaleLineResponse struct {
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Amount        decimal.Decimal `json:"amount"`
}

// DailyProductStatResponse cantidades vendidas de un producto, en el día y
// acumuladas en el año.
type DailyProductStatResponse struct {
	ProductID    string          `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	QuantityDay  decimal.Decimal `json:"quantity_day"`
	QuantityYear decimal.Decimal `json:"quantity_year"`
}

// DailySalesResponse ventas del día con acumulados por producto.
type DailySalesResponse struct {
	Date     string                     `json:"date"`
	Lines    []DailySaleLineResponse    `json:"lines"`
	Products []DailyProductStatResponse `json:"products"`
	TotalHT  decimal.Decimal            `json:"total_ht"`
	TotalTTC decimal.Decimal            `json:"total_ttc"`
}

// NetRevenueResponse cifra de negocio neta de un periodo: facturado HT menos
// los avoirs ligados a esas facturas.
type NetRevenueResponse struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	InvoicedHT decimal.Decimal `json:"invoiced_ht"`
	CreditedHT decimal.Decimal `json:"credited_ht"`
	NetRevenue decimal.Decimal `json:"net_revenue"`
}

// StockReportRowResponse nivel de un pool de stock con su verificación por replay.
type StockReportRowResponse struct {
	ProductID    string          `json:"product_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Replayed     decimal.Decimal `json:"replayed"`
	Consistent   bool            `json:"consistent"`
}

// MovementResponse entrada del histórico del libro de stock.
type MovementResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Kind        string          `json:"kind"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference   string          `json:"reference"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	CreatedAt   string          `json:"created_at"`
}
