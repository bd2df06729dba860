package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// PedidoFilter is bound from query string of GET /v1/pedidos.
type PedidoFilter struct {
	Fecha     string `form:"fecha"` // YYYY-MM-DD
	Estado    string `form:"estado"`
	Tipo      string `form:"tipo"`
	ClienteID string `form:"cliente_id"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
	// PrecioUnitario opcional: nil = precio de venta vigente del producto.
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"omitempty"`
}

type CrearPedidoRequest struct {
	// ClienteID opcional: vacío = cliente mostrador (venta anónima de contado).
	ClienteID *string             `json:"cliente_id" validate:"omitempty,uuid"`
	Tipo      string              `json:"tipo"       validate:"required,oneof=contado cuenta_corriente"`
	Items     []ItemPedidoRequest `json:"items"      validate:"required,min=1,dive"`
}

type AnularPedidoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	Producto       string          `json:"producto"`
	ProductoID     string          `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID        string               `json:"id"`
	Numero    int                  `json:"numero"`
	ClienteID string               `json:"cliente_id"`
	Cliente   string               `json:"cliente,omitempty"`
	Tipo      string               `json:"tipo"`
	Estado    string               `json:"estado"`
	Total     decimal.Decimal      `json:"total"`
	Items     []ItemPedidoResponse `json:"items"`
	MotivoAnulacion *string        `json:"motivo_anulacion,omitempty"`
	CreatedAt       string         `json:"created_at"`
}
