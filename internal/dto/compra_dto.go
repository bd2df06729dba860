package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// CompraFilter is bound from query string of GET /v1/compras.
type CompraFilter struct {
	Estado      string `form:"estado"`
	Modo        string `form:"modo"` // simple | detallada
	ProveedorID string `form:"proveedor_id"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemCompraRequest struct {
	ProductoID    string          `json:"producto_id"    validate:"required,uuid"`
	Cantidad      int             `json:"cantidad"       validate:"required,min=1"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"required"`
}

// CrearCompraRequest crea una compra detallada: ingresa stock y dispara el
// recálculo de costo promedio de cada producto.
type CrearCompraRequest struct {
	ProveedorID   string              `json:"proveedor_id"   validate:"required,uuid"`
	NumeroFactura *string             `json:"numero_factura"`
	Moneda        string              `json:"moneda"         validate:"required,oneof=ARS USD"`
	// TipoCambio en pesos por dólar. Obligatorio siempre en modo detallada:
	// se necesita para normalizar los costos a dólares.
	TipoCambio  *decimal.Decimal    `json:"tipo_cambio"  validate:"omitempty"`
	FechaCompra string              `json:"fecha_compra" validate:"omitempty,datetime=2006-01-02"`
	Items       []ItemCompraRequest `json:"items"        validate:"required,min=1,dive"`
}

// CrearFacturaRequest crea una factura simple (cuenta a pagar plana).
type CrearFacturaRequest struct {
	ProveedorID      string           `json:"proveedor_id"      validate:"required,uuid"`
	NumeroFactura    string           `json:"numero_factura"    validate:"required,min=1"`
	Monto            decimal.Decimal  `json:"monto"             validate:"required"`
	Moneda           string           `json:"moneda"            validate:"required,oneof=ARS USD"`
	TipoCambio       *decimal.Decimal `json:"tipo_cambio"       validate:"omitempty"`
	FechaCompra      string           `json:"fecha_compra"      validate:"omitempty,datetime=2006-01-02"`
	FechaVencimiento string           `json:"fecha_vencimiento" validate:"required,datetime=2006-01-02"`
	// Condiciones de pronto pago explícitas; si faltan y el proveedor tiene
	// ventana por defecto, se heredan de él.
	FechaProntoPago     *string          `json:"fecha_pronto_pago"     validate:"omitempty,datetime=2006-01-02"`
	DescuentoProntoPago *decimal.Decimal `json:"descuento_pronto_pago" validate:"omitempty"`
}

type MarcarPagadaRequest struct {
	FechaPago        string `json:"fecha_pago" validate:"omitempty,datetime=2006-01-02"`
	AplicarDescuento bool   `json:"aplicar_descuento"`
}

// MarcarPeriodoPagadoRequest marca pagadas todas las facturas pendientes
// vencidas del proveedor hasta la fecha dada, aplica sus notas de crédito y
// las notas huérfanas del proveedor.
type MarcarPeriodoPagadoRequest struct {
	ProveedorID string `json:"proveedor_id" validate:"required,uuid"`
	Hasta       string `json:"hasta"        validate:"required,datetime=2006-01-02"`
	FechaPago   string `json:"fecha_pago"   validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemCompraResponse struct {
	Producto      string          `json:"producto"`
	ProductoID    string          `json:"producto_id"`
	Cantidad      int             `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type CompraResponse struct {
	ID            string           `json:"id"`
	ProveedorID   string           `json:"proveedor_id"`
	Proveedor     string           `json:"proveedor,omitempty"`
	Modo          string           `json:"modo"`
	NumeroFactura *string          `json:"numero_factura,omitempty"`
	Monto         decimal.Decimal  `json:"monto"`
	Moneda        string           `json:"moneda"`
	TipoCambio    *decimal.Decimal `json:"tipo_cambio,omitempty"`
	TotalPesos    decimal.Decimal  `json:"total_pesos"`
	FechaCompra      string  `json:"fecha_compra"`
	FechaVencimiento *string `json:"fecha_vencimiento,omitempty"`
	FechaProntoPago     *string          `json:"fecha_pronto_pago,omitempty"`
	DescuentoProntoPago *decimal.Decimal `json:"descuento_pronto_pago,omitempty"`
	Estado            string               `json:"estado"`
	FechaPago         *string              `json:"fecha_pago,omitempty"`
	DescuentoAplicado bool                 `json:"descuento_aplicado"`
	Items             []ItemCompraResponse `json:"items,omitempty"`
	CreatedAt         string               `json:"created_at"`
}

type PeriodoPagadoResponse struct {
	ProveedorID    string           `json:"proveedor_id"`
	FacturasPagadas int             `json:"facturas_pagadas"`
	TotalPesos      decimal.Decimal `json:"total_pesos"`
	Compras         []CompraResponse `json:"compras"`
}
