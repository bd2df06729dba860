package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

type NotaCreditoFilter struct {
	Estado      string `form:"estado"`
	ProveedorID string `form:"proveedor_id"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type NotaCreditoListResponse struct {
	Data  []NotaCreditoResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearNotaCreditoRequest: con compra_id, el monto/moneda/tipo de cambio se
// heredan de la factura cuando no vienen explícitos; sin compra_id la nota es
// huérfana y requiere proveedor y monto.
type CrearNotaCreditoRequest struct {
	ProveedorID *string          `json:"proveedor_id" validate:"omitempty,uuid"`
	CompraID    *string          `json:"compra_id"    validate:"omitempty,uuid"`
	Numero      *string          `json:"numero"`
	Monto       *decimal.Decimal `json:"monto"        validate:"omitempty"`
	Moneda      *string          `json:"moneda"       validate:"omitempty,oneof=ARS USD"`
	TipoCambio  *decimal.Decimal `json:"tipo_cambio"  validate:"omitempty"`
	Motivo      *string          `json:"motivo"`
}

type AplicarNotaCreditoRequest struct {
	Fecha string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type NotaCreditoResponse struct {
	ID          string           `json:"id"`
	ProveedorID string           `json:"proveedor_id"`
	Proveedor   string           `json:"proveedor,omitempty"`
	CompraID    *string          `json:"compra_id,omitempty"`
	Numero      *string          `json:"numero,omitempty"`
	Monto       decimal.Decimal  `json:"monto"`
	Moneda      string           `json:"moneda"`
	TipoCambio  *decimal.Decimal `json:"tipo_cambio,omitempty"`
	TotalPesos  decimal.Decimal  `json:"total_pesos"`
	Estado      string           `json:"estado"`
	FechaAplicacion *string      `json:"fecha_aplicacion,omitempty"`
	Motivo          *string      `json:"motivo,omitempty"`
	CreatedAt       string       `json:"created_at"`
}
