package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductoFilter is bound from query string of GET /v1/productos.
type ProductoFilter struct {
	SKU         string `form:"sku"`
	Nombre      string `form:"nombre"`
	Rubro       string `form:"rubro"`
	ProveedorID string `form:"proveedor_id"`
	Activo      string `form:"activo"` // "false" | "all" | default activos
	BajoMinimo  bool   `form:"bajo_minimo"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	SKU         string          `json:"sku"          validate:"required,min=1"`
	Nombre      string          `json:"nombre"       validate:"required,min=2"`
	Descripcion *string         `json:"descripcion"`
	Rubro       string          `json:"rubro"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
	StockMinimo int             `json:"stock_minimo" validate:"min=0"`
	ProveedorID *string         `json:"proveedor_id" validate:"omitempty,uuid"`
}

type ActualizarProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2"`
	Descripcion *string         `json:"descripcion"`
	Rubro       string          `json:"rubro"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
	StockMinimo int             `json:"stock_minimo" validate:"min=0"`
	ProveedorID *string         `json:"proveedor_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Nombre        string          `json:"nombre"`
	Descripcion   *string         `json:"descripcion,omitempty"`
	Rubro         string          `json:"rubro,omitempty"`
	StockActual   int             `json:"stock_actual"`
	StockMinimo   int             `json:"stock_minimo"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	CostoMoneda   string          `json:"costo_moneda"`
	PrecioVenta   decimal.Decimal `json:"precio_venta"`
	ProveedorID   *string         `json:"proveedor_id,omitempty"`
	Activo        bool            `json:"activo"`
}

// HistorialCostoResponse is one cost recalculation entry.
type HistorialCostoResponse struct {
	ID           string          `json:"id"`
	CostoAntes   decimal.Decimal `json:"costo_antes"`
	CostoDespues decimal.Decimal `json:"costo_despues"`
	Moneda       string          `json:"moneda"`
	CompraID     *string         `json:"compra_id,omitempty"`
	Motivo       string          `json:"motivo"`
	CreatedAt    string          `json:"created_at"`
}
