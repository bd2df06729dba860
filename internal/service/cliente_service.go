package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/repository"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:          req.Nombre,
		CUIT:            req.CUIT,
		Telefono:        req.Telefono,
		Email:           req.Email,
		Direccion:       req.Direccion,
		CuentaCorriente: req.CuentaCorriente,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		resp = append(resp, *clienteToResponse(&clientes[i]))
	}
	return resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// El cliente mostrador es fijo: ni cuenta corriente ni edición.
	if c.Mostrador {
		return nil, errors.New("el cliente mostrador no se puede modificar")
	}

	c.Nombre = req.Nombre
	c.CUIT = req.CUIT
	c.Telefono = req.Telefono
	c.Email = req.Email
	c.Direccion = req.Direccion
	c.CuentaCorriente = req.CuentaCorriente

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Mostrador {
		return errors.New("el cliente mostrador no se puede desactivar")
	}
	return s.repo.SoftDelete(ctx, id)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:              c.ID.String(),
		Nombre:          c.Nombre,
		CUIT:            c.CUIT,
		Telefono:        c.Telefono,
		Email:           c.Email,
		Direccion:       c.Direccion,
		CuentaCorriente: c.CuentaCorriente,
		Mostrador:       c.Mostrador,
		Activo:          c.Activo,
	}
}
