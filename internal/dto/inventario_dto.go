package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AjustarStockRequest es el ajuste manual de stock de POST /v1/inventario/ajustes.
// La cantidad es firmada: positiva entra, negativa sale. Cero se rechaza.
type AjustarStockRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required"`
	Nota       string `json:"nota"`
}

// ─── Filter / Response DTOs ──────────────────────────────────────────────────

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Producto      string  `json:"producto,omitempty"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Nota          string  `json:"nota,omitempty"`
	RefTipo       *string `json:"ref_tipo,omitempty"`
	RefID         *string `json:"ref_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
