package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Métodos de pago admitidos.
const (
	PagoEfectivo      = "efectivo"
	PagoTransferencia = "transferencia"
	PagoTarjeta       = "tarjeta"
	PagoCheque        = "cheque"
)

// MetodoPagoValido informa si m pertenece al conjunto fijo de métodos.
func MetodoPagoValido(m string) bool {
	switch m {
	case PagoEfectivo, PagoTransferencia, PagoTarjeta, PagoCheque:
		return true
	}
	return false
}

// Pago es un pago recibido de un cliente con cuenta corriente. No hay tope
// contra el saldo deudor: un pago en exceso deja el saldo derivado negativo
// (crédito a favor del cliente).
type Pago struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto     decimal.Decimal `gorm:"type:decimal(16,2);not null"` // en pesos
	Metodo    string          `gorm:"type:varchar(20);not null"`
	Fecha     time.Time       `gorm:"not null"`
	Nota      *string
	CreatedAt time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}
