package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una nota de crédito: pendiente → aplicada | anulada.
const (
	NotaCreditoPendiente = "pendiente"
	NotaCreditoAplicada  = "aplicada"
	NotaCreditoAnulada   = "anulada"
)

// NotaCredito reduce el saldo a pagar a un proveedor una vez aplicada.
// Puede estar ligada a una factura (hereda monto/moneda/tipo de cambio al
// crearse si no se cargan explícitos) o quedar huérfana a nombre del
// proveedor.
type NotaCredito struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompraID    *uuid.UUID `gorm:"type:uuid;index"`
	Numero      *string    `gorm:"type:varchar(40)"`
	Monto       decimal.Decimal  `gorm:"type:decimal(16,2);not null"`
	Moneda      string           `gorm:"type:varchar(3);not null;default:'ARS'"`
	TipoCambio  *decimal.Decimal `gorm:"type:decimal(14,4)"`
	Estado      string           `gorm:"type:varchar(12);not null;default:'pendiente'"`
	FechaAplicacion *time.Time
	Motivo          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
	Compra    *Compra    `gorm:"foreignKey:CompraID"`
}

func (NotaCredito) TableName() string { return "notas_credito" }

// TotalPesos devuelve el monto de la nota en pesos.
func (n *NotaCredito) TotalPesos() decimal.Decimal {
	return APesos(n.Monto, n.Moneda, n.TipoCambio)
}
