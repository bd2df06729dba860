package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de movimiento de stock.
const (
	MovimientoCompra = "compra"
	MovimientoVenta  = "venta"
	MovimientoAjuste = "ajuste"
)

// Tipos de documento referenciables desde un movimiento.
const (
	RefPedido = "pedido"
	RefCompra = "compra"
)

// DocRef es la referencia tipada al documento que originó un movimiento.
// Se construye únicamente mediante PedidoRef o CompraRef para que el par
// tipo+id nunca quede inconsistente.
type DocRef struct {
	Tipo string
	ID   uuid.UUID
}

// PedidoRef referencia un pedido de venta.
func PedidoRef(id uuid.UUID) *DocRef { return &DocRef{Tipo: RefPedido, ID: id} }

// CompraRef referencia una compra.
func CompraRef(id uuid.UUID) *DocRef { return &DocRef{Tipo: RefCompra, ID: id} }

// MovimientoStock es un renglón del libro de stock: inmutable, con cantidad
// firmada (positiva = entrada, negativa = salida). Los movimientos nunca se
// editan ni se borran; una reversa se expresa como un movimiento opuesto.
// El libro es la única autoridad sobre la existencia de cada producto.
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo       string    `gorm:"type:varchar(20);not null"` // "compra" | "venta" | "ajuste"
	Cantidad   int       `gorm:"not null"`
	// StockAnterior / StockNuevo dejan rastro del estado al momento del
	// movimiento para auditoría; el valor vigente se recalcula del libro.
	StockAnterior int `gorm:"not null"`
	StockNuevo    int `gorm:"not null"`
	Nota          string
	RefTipo       *string    `gorm:"type:varchar(20)"`
	RefID         *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoStock) TableName() string { return "movimientos_stock" }

// SetRef asigna la referencia al documento de origen (nil = sin documento).
func (m *MovimientoStock) SetRef(ref *DocRef) {
	if ref == nil {
		m.RefTipo, m.RefID = nil, nil
		return
	}
	tipo, id := ref.Tipo, ref.ID
	m.RefTipo, m.RefID = &tipo, &id
}

// Ref devuelve la referencia al documento de origen, o nil si no tiene.
func (m *MovimientoStock) Ref() *DocRef {
	if m.RefTipo == nil || m.RefID == nil {
		return nil
	}
	return &DocRef{Tipo: *m.RefTipo, ID: *m.RefID}
}
