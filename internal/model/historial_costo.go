package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialCosto registra cada recálculo del costo promedio de un producto.
// Los registros son inmutables — nunca se eliminan ni modifican.
type HistorialCosto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostoAntes   decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	CostoDespues decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Moneda       string          `gorm:"type:varchar(3);not null;default:'USD'"`
	// CompraID es la compra cuya creación o anulación disparó el recálculo.
	CompraID  *uuid.UUID `gorm:"type:uuid;index"`
	Motivo    string     `gorm:"not null"` // "alta_compra" | "anulacion_compra"
	CreatedAt time.Time

	Producto Producto `gorm:"foreignKey:ProductoID"`
}

func (HistorialCosto) TableName() string { return "historial_costos" }
