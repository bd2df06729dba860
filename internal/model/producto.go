package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto representa un repuesto del catálogo.
//
// StockActual es un valor derivado: debe ser siempre igual a la suma firmada
// de los movimientos de stock del producto. Solo lo escribe el servicio de
// inventario al registrar un movimiento; ningún otro componente lo toca.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU         string    `gorm:"column:sku;uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Rubro       string
	StockActual int `gorm:"not null;default:0"`
	StockMinimo int `gorm:"not null;default:0"`
	// CostoUnitario es el costo promedio ponderado derivado del historial de
	// compras no anuladas, siempre expresado en CostoMoneda (dólares).
	CostoUnitario decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	CostoMoneda   string          `gorm:"type:varchar(3);not null;default:'USD'"`
	// PrecioVenta se maneja en pesos.
	PrecioVenta decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	ProveedorID *uuid.UUID      `gorm:"type:uuid;index"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}
