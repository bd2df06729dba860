package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ContactoProveedorInput struct {
	Nombre   string  `json:"nombre"   validate:"required,min=1"`
	Cargo    *string `json:"cargo"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type CrearProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required,min=2"`
	CUIT        string  `json:"cuit"         validate:"required"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
	// Ventana de pronto pago por defecto que heredan las facturas simples.
	DiasProntoPago      *int                     `json:"dias_pronto_pago"      validate:"omitempty,min=1"`
	DescuentoProntoPago *decimal.Decimal         `json:"descuento_pronto_pago" validate:"omitempty"`
	Contactos           []ContactoProveedorInput `json:"contactos"`
}

type ActualizarProveedorRequest struct {
	RazonSocial         string           `json:"razon_social" validate:"required,min=2"`
	Telefono            *string          `json:"telefono"`
	Email               *string          `json:"email"        validate:"omitempty,email"`
	Direccion           *string          `json:"direccion"`
	DiasProntoPago      *int             `json:"dias_pronto_pago"      validate:"omitempty,min=1"`
	DescuentoProntoPago *decimal.Decimal `json:"descuento_pronto_pago" validate:"omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ContactoProveedorResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Cargo    *string `json:"cargo,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type ProveedorResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	CUIT        string  `json:"cuit"`
	Telefono    *string `json:"telefono,omitempty"`
	Email       *string `json:"email,omitempty"`
	Direccion   *string `json:"direccion,omitempty"`
	DiasProntoPago      *int                        `json:"dias_pronto_pago,omitempty"`
	DescuentoProntoPago *decimal.Decimal            `json:"descuento_pronto_pago,omitempty"`
	Activo              bool                        `json:"activo"`
	Contactos           []ContactoProveedorResponse `json:"contactos,omitempty"`
}
