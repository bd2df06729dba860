package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Proveedor representa un proveedor de repuestos con sus datos comerciales y
// sus condiciones de pronto pago por defecto.
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null"`
	CUIT        string    `gorm:"column:cuit;uniqueIndex;not null"`
	Telefono    *string
	Email       *string
	Direccion   *string
	// Ventana de pronto pago por defecto: si una factura simple no trae
	// condiciones explícitas, hereda estos valores (días desde la fecha de
	// compra y porcentaje de descuento).
	DiasProntoPago      *int
	DescuentoProntoPago *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Activo              bool             `gorm:"not null;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Productos []Producto          `gorm:"foreignKey:ProveedorID"`
	Contactos []ContactoProveedor `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }

// ContactoProveedor guarda una persona de contacto del proveedor.
type ContactoProveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre      string    `gorm:"not null"`
	Cargo       *string
	Telefono    *string
	Email       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ContactoProveedor) TableName() string { return "contactos_proveedor" }
