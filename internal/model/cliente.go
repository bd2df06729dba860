package model

import (
	"time"

	"github.com/google/uuid"
)

// NombreMostrador es el cliente centinela para ventas de contado anónimas.
// Se siembra una sola vez al arrancar el servidor (nunca se crea on-demand
// por request, para evitar duplicados ante primer uso concurrente).
const NombreMostrador = "Mostrador"

// Cliente representa un cliente del distribuidor. CuentaCorriente habilita
// pedidos a crédito y la registración de pagos; el saldo deudor nunca se
// almacena, se deriva de pedidos confirmados en cuenta corriente menos pagos.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	CUIT      *string   `gorm:"column:cuit;uniqueIndex"`
	Telefono  *string
	Email     *string
	Direccion *string
	CuentaCorriente bool `gorm:"not null;default:false"`
	// Mostrador marca al cliente centinela; no puede operar en cuenta corriente.
	Mostrador bool `gorm:"not null;default:false"`
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
