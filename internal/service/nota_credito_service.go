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

type NotaCreditoService interface {
	// Crear registra una nota de crédito. Ligada a una factura hereda monto,
	// moneda y tipo de cambio cuando no vienen explícitos; huérfana requiere
	// proveedor y monto.
	Crear(ctx context.Context, req dto.CrearNotaCreditoRequest) outcome.Outcome[*dto.NotaCreditoResponse]
	Aplicar(ctx context.Context, id uuid.UUID, req dto.AplicarNotaCreditoRequest) outcome.Outcome[*dto.NotaCreditoResponse]
	Anular(ctx context.Context, id uuid.UUID) outcome.Outcome[*dto.NotaCreditoResponse]
	Get(ctx context.Context, id uuid.UUID) (*dto.NotaCreditoResponse, error)
	List(ctx context.Context, filter dto.NotaCreditoFilter) (*dto.NotaCreditoListResponse, error)
}

type notaCreditoService struct {
	repo          repository.NotaCreditoRepository
	compraRepo    repository.CompraRepository
	proveedorRepo repository.ProveedorRepository
}

func NewNotaCreditoService(
	repo repository.NotaCreditoRepository,
	compraRepo repository.CompraRepository,
	proveedorRepo repository.ProveedorRepository,
) NotaCreditoService {
	return &notaCreditoService{
		repo:          repo,
		compraRepo:    compraRepo,
		proveedorRepo: proveedorRepo,
	}
}

func (s *notaCreditoService) Crear(ctx context.Context, req dto.CrearNotaCreditoRequest) outcome.Outcome[*dto.NotaCreditoResponse] {
	nota, err := s.crear(ctx, req)
	if err != nil {
		return outcome.Resolve[*dto.NotaCreditoResponse]("crear_nota_credito", err)
	}
	return outcome.Ok(notaToResponse(nota))
}

func (s *notaCreditoService) crear(ctx context.Context, req dto.CrearNotaCreditoRequest) (*model.NotaCredito, error) {
	nota := &model.NotaCredito{
		Numero: req.Numero,
		Motivo: req.Motivo,
		Estado: model.NotaCreditoPendiente,
	}

	if req.CompraID != nil && *req.CompraID != "" {
		cid, err := uuid.Parse(*req.CompraID)
		if err != nil {
			return nil, outcome.Violation("compra_id inválido: %s", *req.CompraID)
		}
		compra, err := s.compraRepo.FindByID(ctx, cid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, outcome.Violation("compra no encontrada")
			}
			return nil, err
		}
		if compra.Estado == model.CompraAnulada {
			return nil, outcome.Violation("no se puede crear una nota de crédito sobre una compra anulada")
		}

		nota.CompraID = &compra.ID
		nota.ProveedorID = compra.ProveedorID
		// Herencia de la factura: lo que no venga explícito se toma del
		// documento de origen.
		nota.Monto = compra.Monto
		nota.Moneda = compra.Moneda
		nota.TipoCambio = compra.TipoCambio
		if req.Monto != nil {
			nota.Monto = *req.Monto
		}
		if req.Moneda != nil {
			nota.Moneda = *req.Moneda
		}
		if req.TipoCambio != nil {
			nota.TipoCambio = req.TipoCambio
		}
	} else {
		if req.ProveedorID == nil || *req.ProveedorID == "" {
			return nil, outcome.Violation("una nota de crédito sin factura requiere proveedor")
		}
		if req.Monto == nil {
			return nil, outcome.Violation("una nota de crédito sin factura requiere monto")
		}
		pid, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, outcome.Violation("proveedor_id inválido: %s", *req.ProveedorID)
		}
		if _, err := s.proveedorRepo.FindByID(ctx, pid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, outcome.Violation("proveedor no encontrado")
			}
			return nil, err
		}
		nota.ProveedorID = pid
		nota.Monto = *req.Monto
		nota.Moneda = model.MonedaPeso
		if req.Moneda != nil {
			nota.Moneda = *req.Moneda
		}
		nota.TipoCambio = req.TipoCambio
	}

	if !model.MonedaValida(nota.Moneda) {
		return nil, outcome.Violation("moneda inválida: %s", nota.Moneda)
	}
	if !nota.Monto.IsPositive() {
		return nil, outcome.Violation("el monto debe ser mayor a cero")
	}
	if nota.Moneda == model.MonedaDolar && (nota.TipoCambio == nil || !nota.TipoCambio.IsPositive()) {
		return nil, outcome.Violation("una nota en dólares requiere tipo de cambio mayor a cero")
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, nota)
	})
	if err != nil {
		return nil, err
	}
	return nota, nil
}

func (s *notaCreditoService) Aplicar(ctx context.Context, id uuid.UUID, req dto.AplicarNotaCreditoRequest) outcome.Outcome[*dto.NotaCreditoResponse] {
	nota, err := s.transicionar(ctx, id, model.NotaCreditoAplicada, req.Fecha)
	if err != nil {
		return outcome.Resolve[*dto.NotaCreditoResponse]("aplicar_nota_credito", err)
	}
	return outcome.Ok(notaToResponse(nota))
}

func (s *notaCreditoService) Anular(ctx context.Context, id uuid.UUID) outcome.Outcome[*dto.NotaCreditoResponse] {
	nota, err := s.transicionar(ctx, id, model.NotaCreditoAnulada, "")
	if err != nil {
		return outcome.Resolve[*dto.NotaCreditoResponse]("anular_nota_credito", err)
	}
	return outcome.Ok(notaToResponse(nota))
}

// transicionar mueve una nota pendiente a aplicada o anulada. Los dos estados
// finales son terminales.
func (s *notaCreditoService) transicionar(ctx context.Context, id uuid.UUID, estado, fecha string) (*model.NotaCredito, error) {
	nota, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outcome.Violation("nota de crédito no encontrada")
		}
		return nil, err
	}
	switch nota.Estado {
	case model.NotaCreditoAplicada:
		return nil, outcome.Violation("la nota de crédito ya está aplicada")
	case model.NotaCreditoAnulada:
		return nil, outcome.Violation("la nota de crédito está anulada")
	}

	nota.Estado = estado
	if estado == model.NotaCreditoAplicada {
		f, err := parseFechaODefault(fecha)
		if err != nil {
			return nil, err
		}
		nota.FechaAplicacion = &f
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateTx(tx, nota)
	})
	if err != nil {
		return nil, err
	}
	return nota, nil
}

func (s *notaCreditoService) Get(ctx context.Context, id uuid.UUID) (*dto.NotaCreditoResponse, error) {
	nota, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return notaToResponse(nota), nil
}

func (s *notaCreditoService) List(ctx context.Context, filter dto.NotaCreditoFilter) (*dto.NotaCreditoListResponse, error) {
	notas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.NotaCreditoResponse, 0, len(notas))
	for i := range notas {
		data = append(data, *notaToResponse(&notas[i]))
	}
	return &dto.NotaCreditoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func notaToResponse(n *model.NotaCredito) *dto.NotaCreditoResponse {
	resp := &dto.NotaCreditoResponse{
		ID:          n.ID.String(),
		ProveedorID: n.ProveedorID.String(),
		Numero:      n.Numero,
		Monto:       n.Monto,
		Moneda:      n.Moneda,
		TipoCambio:  n.TipoCambio,
		TotalPesos:  n.TotalPesos(),
		Estado:      n.Estado,
		Motivo:      n.Motivo,
		CreatedAt:   n.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if n.Proveedor != nil {
		resp.Proveedor = n.Proveedor.RazonSocial
	}
	if n.CompraID != nil {
		id := n.CompraID.String()
		resp.CompraID = &id
	}
	if n.FechaAplicacion != nil {
		f := n.FechaAplicacion.Format(fmtFecha)
		resp.FechaAplicacion = &f
	}
	return resp
}
