package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

type PagoFilter struct {
	ClienteID string `form:"cliente_id"`
	Metodo    string `form:"metodo"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PagoListResponse struct {
	Data  []PagoResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarPagoRequest struct {
	ClienteID string          `json:"cliente_id" validate:"required,uuid"`
	Monto     decimal.Decimal `json:"monto"      validate:"required"`
	Metodo    string          `json:"metodo"     validate:"required,oneof=efectivo transferencia tarjeta cheque"`
	Fecha     string          `json:"fecha"      validate:"omitempty,datetime=2006-01-02"`
	Nota      *string         `json:"nota"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoResponse struct {
	ID        string          `json:"id"`
	ClienteID string          `json:"cliente_id"`
	Cliente   string          `json:"cliente,omitempty"`
	Monto     decimal.Decimal `json:"monto"`
	Metodo    string          `json:"metodo"`
	Fecha     string          `json:"fecha"`
	Nota      *string         `json:"nota,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// SaldoResponse es el saldo deudor derivado del cliente: pedidos confirmados
// en cuenta corriente menos pagos. Negativo = crédito a favor.
type SaldoResponse struct {
	ClienteID string          `json:"cliente_id"`
	Saldo     decimal.Decimal `json:"saldo"`
}
