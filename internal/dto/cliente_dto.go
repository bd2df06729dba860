package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre          string  `json:"nombre"           validate:"required,min=2"`
	CUIT            *string `json:"cuit"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
	CuentaCorriente bool    `json:"cuenta_corriente"`
}

type ActualizarClienteRequest struct {
	Nombre          string  `json:"nombre"           validate:"required,min=2"`
	CUIT            *string `json:"cuit"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
	CuentaCorriente bool    `json:"cuenta_corriente"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	CUIT            *string `json:"cuit,omitempty"`
	Telefono        *string `json:"telefono,omitempty"`
	Email           *string `json:"email,omitempty"`
	Direccion       *string `json:"direccion,omitempty"`
	CuentaCorriente bool    `json:"cuenta_corriente"`
	Mostrador       bool    `json:"mostrador"`
	Activo          bool    `json:"activo"`
}
