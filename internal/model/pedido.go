package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de pedido.
const (
	PedidoContado         = "contado"
	PedidoCuentaCorriente = "cuenta_corriente"
)

// Estados de un pedido: confirmado → anulado (una sola dirección).
const (
	PedidoConfirmado = "confirmado"
	PedidoAnulado    = "anulado"
)

// Pedido es un pedido de venta. Crear o anular un pedido mueve stock 1:1 con
// sus renglones a través del libro de movimientos.
type Pedido struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero int       `gorm:"uniqueIndex;not null"`
	// ClienteID apunta al cliente mostrador cuando el pedido es anónimo.
	ClienteID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo      string          `gorm:"type:varchar(20);not null"`
	Estado    string          `gorm:"type:varchar(12);not null;default:'confirmado'"`
	Total     decimal.Decimal `gorm:"type:decimal(16,2);not null"` // Σ renglones, en pesos
	MotivoAnulacion *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Cliente *Cliente     `gorm:"foreignKey:ClienteID"`
	Items   []PedidoItem `gorm:"foreignKey:PedidoID"`
}

// PedidoItem es un renglón de pedido. PrecioUnitario queda fijado al precio
// vigente del producto si el renglón no trae precio explícito.
type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
