package dto

import "github.com/shopspring/decimal"

// InvoiceItemRequest línea solicitada. UnitPrice en cero toma el precio del producto.
type InvoiceItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// TransportRequest metadatos de transporte de la entrega.
type TransportRequest struct {
	Driver       string `json:"driver"`
	TractorPlate string `json:"tractor_plate"`
	TrailerPlate string `json:"trailer_plate"`
	Carrier      string `json:"carrier"`
}

// CreateInvoiceRequest petición para crear una factura.
type CreateInvoiceRequest struct {
	ClientID  string               `json:"client_id"`
	Date      string               `json:"date"` // YYYY-MM-DD; vacío = hoy
	Items     []InvoiceItemRequest `json:"items"`
	Transport TransportRequest     `json:"transport"`
}

// InvoiceLineResponse línea persistida.
type InvoiceLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// InvoiceResponse factura con su detalle.
type InvoiceResponse struct {
	ID         string                `json:"id"`
	Number     string                `json:"number"`
	Year       int                   `json:"year"`
	Date       string                `json:"date"`
	ClientID   string                `json:"client_id"`
	ClientName string                `json:"client_name,omitempty"`
	TotalHT    decimal.Decimal       `json:"total_ht"`
	TotalTVA   decimal.Decimal       `json:"total_tva"`
	TotalTTC   decimal.Decimal       `json:"total_ttc"`
	Status     string                `json:"status"`
	Lines      []InvoiceLineResponse `json:"lines"`
}

// CreditNoteItemRequest cantidad devuelta de un producto facturado.
type CreditNoteItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateCreditNoteRequest petición para crear un avoir sobre una factura.
type CreateCreditNoteRequest struct {
	InvoiceID string                  `json:"invoice_id"`
	Date      string                  `json:"date"`
	Reason    string                  `json:"reason"`
	Items     []CreditNoteItemRequest `json:"items"`
}

// CreditNoteResponse avoir con su detalle.
type CreditNoteResponse struct {
	ID        string                `json:"id"`
	Number    string                `json:"number"`
	Year      int                   `json:"year"`
	Date      string                `json:"date"`
	InvoiceID string                `json:"invoice_id"`
	ClientID  string                `json:"client_id"`
	Reason    string                `json:"reason"`
	TotalHT   decimal.Decimal       `json:"total_ht"`
	TotalTVA  decimal.Decimal       `json:"total_tva"`
	TotalTTC  decimal.Decimal       `json:"total_ttc"`
	Lines     []InvoiceLineResponse `json:"lines"`
}

// RegisterPaymentRequest petición para registrar un pago.
type RegisterPaymentRequest struct {
	ClientID  string          `json:"client_id"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode"` // CASH, CHEQUE, TRANSFER, DEPOSIT
	Reference string          `json:"reference"`
	Bank      string          `json:"bank"`
}

// PaymentResponse pago persistido.
type PaymentResponse struct {
	ID       string          `json:"id"`
	Number   string          `json:"number"`
	Date     string          `json:"date"`
	ClientID string          `json:"client_id"`
	Amount   decimal.Decimal `json:"amount"`
	Mode     string          `json:"mode"`
}
