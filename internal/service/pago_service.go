package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/outcome"
	"github.com/hvilloria/simple-stock/internal/repository"
)

type PagoService interface {
	// Registrar asienta un pago de un cliente con cuenta corriente. No hay
	// tope contra el saldo: un pago en exceso deja crédito a favor.
	Registrar(ctx context.Context, req dto.RegistrarPagoRequest) outcome.Outcome[*dto.PagoResponse]
	// Saldo deriva el saldo deudor del cliente: pedidos confirmados en
	// cuenta corriente menos pagos registrados. Nunca se almacena.
	Saldo(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoResponse, error)
	List(ctx context.Context, filter dto.PagoFilter) (*dto.PagoListResponse, error)
}

type pagoService struct {
	repo        repository.PagoRepository
	pedidoRepo  repository.PedidoRepository
	clienteRepo repository.ClienteRepository
}

func NewPagoService(
	repo repository.PagoRepository,
	pedidoRepo repository.PedidoRepository,
	clienteRepo repository.ClienteRepository,
) PagoService {
	return &pagoService{
		repo:        repo,
		pedidoRepo:  pedidoRepo,
		clienteRepo: clienteRepo,
	}
}

func (s *pagoService) Registrar(ctx context.Context, req dto.RegistrarPagoRequest) outcome.Outcome[*dto.PagoResponse] {
	pago, err := s.registrar(ctx, req)
	if err != nil {
		return outcome.Resolve[*dto.PagoResponse]("registrar_pago", err)
	}
	return outcome.Ok(pagoToResponse(pago))
}

func (s *pagoService) registrar(ctx context.Context, req dto.RegistrarPagoRequest) (*model.Pago, error) {
	cid, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, outcome.Violation("cliente_id inválido: %s", req.ClienteID)
	}
	cliente, err := s.clienteRepo.FindByID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outcome.Violation("cliente no encontrado")
		}
		return nil, err
	}
	if !cliente.Activo {
		return nil, outcome.Violation("el cliente %s está inactivo", cliente.Nombre)
	}
	if !cliente.CuentaCorriente {
		return nil, outcome.Violation("el cliente %s no opera en cuenta corriente", cliente.Nombre)
	}
	if !req.Monto.IsPositive() {
		return nil, outcome.Violation("el monto debe ser mayor a cero")
	}
	if !model.MetodoPagoValido(req.Metodo) {
		return nil, outcome.Violation("método de pago inválido: %s", req.Metodo)
	}
	fecha, err := parseFechaODefault(req.Fecha)
	if err != nil {
		return nil, err
	}

	pago := &model.Pago{
		ClienteID: cliente.ID,
		Monto:     req.Monto,
		Metodo:    req.Metodo,
		Fecha:     fecha,
		Nota:      req.Nota,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, pago)
	})
	if err != nil {
		return nil, err
	}
	pago.Cliente = cliente
	return pago, nil
}

func (s *pagoService) Saldo(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoResponse, error) {
	if _, err := s.clienteRepo.FindByID(ctx, clienteID); err != nil {
		return nil, err
	}
	pedidos, err := s.pedidoRepo.SumCuentaCorriente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	pagos, err := s.repo.SumByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	return &dto.SaldoResponse{
		ClienteID: clienteID.String(),
		Saldo:     pedidos.Sub(pagos),
	}, nil
}

func (s *pagoService) List(ctx context.Context, filter dto.PagoFilter) (*dto.PagoListResponse, error) {
	pagos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PagoResponse, 0, len(pagos))
	for i := range pagos {
		data = append(data, *pagoToResponse(&pagos[i]))
	}
	return &dto.PagoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func pagoToResponse(p *model.Pago) *dto.PagoResponse {
	resp := &dto.PagoResponse{
		ID:        p.ID.String(),
		ClienteID: p.ClienteID.String(),
		Monto:     p.Monto,
		Metodo:    p.Metodo,
		Fecha:     p.Fecha.Format(fmtFecha),
		Nota:      p.Nota,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.Cliente != nil {
		resp.Cliente = p.Cliente.Nombre
	}
	return resp
}
