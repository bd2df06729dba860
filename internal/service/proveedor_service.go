package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/outcome"
	"github.com/hvilloria/simple-stock/internal/repository"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := validarProntoPagoProveedor(req.DiasProntoPago, req.DescuentoProntoPago); err != nil {
		return nil, err
	}

	p := &model.Proveedor{
		RazonSocial:         req.RazonSocial,
		CUIT:                req.CUIT,
		Telefono:            req.Telefono,
		Email:               req.Email,
		Direccion:           req.Direccion,
		DiasProntoPago:      req.DiasProntoPago,
		DescuentoProntoPago: req.DescuentoProntoPago,
		Activo:              true,
	}
	for _, c := range req.Contactos {
		p.Contactos = append(p.Contactos, model.ContactoProveedor{
			Nombre:   c.Nombre,
			Cargo:    c.Cargo,
			Telefono: c.Telefono,
			Email:    c.Email,
		})
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		resp = append(resp, *proveedorToResponse(&proveedores[i]))
	}
	return resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := validarProntoPagoProveedor(req.DiasProntoPago, req.DescuentoProntoPago); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.RazonSocial = req.RazonSocial
	p.Telefono = req.Telefono
	p.Email = req.Email
	p.Direccion = req.Direccion
	p.DiasProntoPago = req.DiasProntoPago
	p.DescuentoProntoPago = req.DescuentoProntoPago

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// validarProntoPagoProveedor exige la ventana completa o ninguna de las dos
// partes, igual que en las facturas.
func validarProntoPagoProveedor(dias *int, descuento *decimal.Decimal) error {
	if (dias == nil) != (descuento == nil) {
		return outcome.Violation("las condiciones de pronto pago requieren días y descuento")
	}
	if descuento != nil {
		return validarDescuento(*descuento)
	}
	return nil
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	resp := &dto.ProveedorResponse{
		ID:                  p.ID.String(),
		RazonSocial:         p.RazonSocial,
		CUIT:                p.CUIT,
		Telefono:            p.Telefono,
		Email:               p.Email,
		Direccion:           p.Direccion,
		DiasProntoPago:      p.DiasProntoPago,
		DescuentoProntoPago: p.DescuentoProntoPago,
		Activo:              p.Activo,
	}
	for i := range p.Contactos {
		c := &p.Contactos[i]
		resp.Contactos = append(resp.Contactos, dto.ContactoProveedorResponse{
			ID:       c.ID.String(),
			Nombre:   c.Nombre,
			Cargo:    c.Cargo,
			Telefono: c.Telefono,
			Email:    c.Email,
		})
	}
	return resp
}
