package dto

import "github.com/shopspring/decimal"

// CreateClientRequest alta de cliente con sus identificadores fiscales.
type CreateClientRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	RC           string          `json:"rc"`
	NIS          string          `json:"nis"`
	NIF          string          `json:"nif"`
	TaxArticle   string          `json:"tax_article"`
	Email        string          `json:"email"`
	Phone1       string          `json:"phone1"`
	Phone2       string          `json:"phone2"`
	BankAccount  string          `json:"bank_account"`
	Bank         string          `json:"bank"`
	Category     string          `json:"category"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	CarryForward decimal.Decimal `json:"carry_forward"`
}

// UpdateClientRequest modificación de cliente; el código no cambia.
type UpdateClientRequest struct {
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	RC          string          `json:"rc"`
	NIS         string          `json:"nis"`
	NIF         string          `json:"nif"`
	TaxArticle  string          `json:"tax_article"`
	Email       string          `json:"email"`
	Phone1      string          `json:"phone1"`
	Phone2      string          `json:"phone2"`
	BankAccount string          `json:"bank_account"`
	Bank        string          `json:"bank"`
	Category    string          `json:"category"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// ClientResponse cliente persistido.
type ClientResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	RC           string          `json:"rc"`
	NIS          string          `json:"nis"`
	NIF          string          `json:"nif"`
	TaxArticle   string          `json:"tax_article"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	CarryForward decimal.Decimal `json:"carry_forward"`
	Active       bool            `json:"active"`
}

// CreateProductRequest alta de producto. ParentID no vacío crea una variante
// de precio que delega su stock en el padre.
type CreateProductRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"` // bag-25kg, bag-50kg, bulk
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	Category     string          `json:"category"`
	ParentID     string          `json:"parent_id"`
}

// UpdatePriceRequest cambio de precio con rastro en price_history.
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
	Note  string          `json:"note"`
}

// ProductResponse producto persistido.
type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ParentID     string          `json:"parent_id,omitempty"`
	Active       bool            `json:"active"`
}
