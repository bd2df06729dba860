package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/outcome"
	"github.com/hvilloria/simple-stock/internal/repository"
)

type PedidoService interface {
	// Crear registra un pedido de venta: numera, persiste el documento con
	// sus renglones y descuenta stock renglón por renglón, todo o nada.
	Crear(ctx context.Context, req dto.CrearPedidoRequest) outcome.Outcome[*dto.PedidoResponse]
	// Anular revierte el pedido: un movimiento de ajuste opuesto por cada
	// movimiento original y la transición a anulado con motivo.
	Anular(ctx context.Context, id uuid.UUID, motivo string) outcome.Outcome[*dto.PedidoResponse]
	Get(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	List(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
}

type pedidoService struct {
	repo           repository.PedidoRepository
	productoRepo   repository.ProductoRepository
	clienteRepo    repository.ClienteRepository
	movimientoRepo repository.MovimientoStockRepository
	inventario     InventarioService
	// mostradorID es el cliente centinela resuelto al arrancar.
	mostradorID uuid.UUID
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	movimientoRepo repository.MovimientoStockRepository,
	inventario InventarioService,
	mostradorID uuid.UUID,
) PedidoService {
	return &pedidoService{
		repo:           repo,
		productoRepo:   productoRepo,
		clienteRepo:    clienteRepo,
		movimientoRepo: movimientoRepo,
		inventario:     inventario,
		mostradorID:    mostradorID,
	}
}

func (s *pedidoService) Crear(ctx context.Context, req dto.CrearPedidoRequest) outcome.Outcome[*dto.PedidoResponse] {
	pedido, err := s.crear(ctx, req)
	if err != nil {
		return outcome.Resolve[*dto.PedidoResponse]("crear_pedido", err)
	}
	return outcome.Ok(pedidoToResponse(pedido))
}

func (s *pedidoService) crear(ctx context.Context, req dto.CrearPedidoRequest) (*model.Pedido, error) {
	clienteID, err := s.resolverCliente(ctx, req)
	if err != nil {
		return nil, err
	}
	// Las reglas de renglones se validan acá y no solo en el DTO: este
	// servicio también se invoca desde los CLI, sin pasar por el binding HTTP.
	if len(req.Items) == 0 {
		return nil, outcome.Violation("el pedido debe tener al menos un renglón")
	}

	// Pre-flight fuera de la transacción: resolver productos y fijar precios.
	type renglon struct {
		productoID uuid.UUID
		nombre     string
		cantidad   int
		precio     decimal.Decimal
	}
	renglones := make([]renglon, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, outcome.Violation("producto_id inválido: %s", item.ProductoID)
		}
		if item.Cantidad <= 0 {
			return nil, outcome.Violation("la cantidad de cada renglón debe ser mayor a cero")
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, outcome.Violation("producto %s no encontrado", item.ProductoID)
			}
			return nil, err
		}
		if !p.Activo {
			return nil, outcome.Violation("el producto %s está inactivo", p.Nombre)
		}
		precio := p.PrecioVenta
		if item.PrecioUnitario != nil {
			if item.PrecioUnitario.IsNegative() {
				return nil, outcome.Violation("el precio unitario no puede ser negativo")
			}
			precio = *item.PrecioUnitario
		}
		renglones = append(renglones, renglon{
			productoID: p.ID,
			nombre:     p.Nombre,
			cantidad:   item.Cantidad,
			precio:     precio,
		})
	}

	var pedido *model.Pedido
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]model.PedidoItem, 0, len(renglones))
		for _, r := range renglones {
			subtotal := r.precio.Mul(decimal.NewFromInt(int64(r.cantidad)))
			total = total.Add(subtotal)
			items = append(items, model.PedidoItem{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				Subtotal:       subtotal,
			})
		}

		pedido = &model.Pedido{
			Numero:    numero,
			ClienteID: clienteID,
			Tipo:      req.Tipo,
			Estado:    model.PedidoConfirmado,
			Total:     total,
			Items:     items,
		}
		if err := s.repo.CreateTx(tx, pedido); err != nil {
			return err
		}

		// Un movimiento de venta por renglón; el primero que no alcance
		// stock aborta la transacción completa.
		for _, r := range renglones {
			_, err := s.inventario.AjustarTx(tx, AjusteStockInput{
				ProductoID: r.productoID,
				Tipo:       model.MovimientoVenta,
				Cantidad:   -r.cantidad,
				Ref:        model.PedidoRef(pedido.ID),
				Nota:       fmt.Sprintf("pedido #%d", numero),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if full, err := s.repo.FindByID(ctx, pedido.ID); err == nil {
		return full, nil
	}
	return pedido, nil
}

// resolverCliente aplica las reglas de cliente del pedido: sin cliente es una
// venta mostrador de contado; cuenta corriente exige un cliente habilitado.
func (s *pedidoService) resolverCliente(ctx context.Context, req dto.CrearPedidoRequest) (uuid.UUID, error) {
	if req.ClienteID == nil || *req.ClienteID == "" {
		if req.Tipo == model.PedidoCuentaCorriente {
			return uuid.Nil, outcome.Violation("un pedido en cuenta corriente requiere cliente")
		}
		return s.mostradorID, nil
	}

	cid, err := uuid.Parse(*req.ClienteID)
	if err != nil {
		return uuid.Nil, outcome.Violation("cliente_id inválido: %s", *req.ClienteID)
	}
	cliente, err := s.clienteRepo.FindByID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, outcome.Violation("cliente no encontrado")
		}
		return uuid.Nil, err
	}
	if !cliente.Activo {
		return uuid.Nil, outcome.Violation("el cliente %s está inactivo", cliente.Nombre)
	}
	if req.Tipo == model.PedidoCuentaCorriente && !cliente.CuentaCorriente {
		return uuid.Nil, outcome.Violation("el cliente %s no opera en cuenta corriente", cliente.Nombre)
	}
	return cliente.ID, nil
}

func (s *pedidoService) Anular(ctx context.Context, id uuid.UUID, motivo string) outcome.Outcome[*dto.PedidoResponse] {
	pedido, err := s.anular(ctx, id, motivo)
	if err != nil {
		return outcome.Resolve[*dto.PedidoResponse]("anular_pedido", err)
	}
	return outcome.Ok(pedidoToResponse(pedido))
}

func (s *pedidoService) anular(ctx context.Context, id uuid.UUID, motivo string) (*model.Pedido, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outcome.Violation("pedido no encontrado")
		}
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// El estado se verifica adentro de la transacción, con lock de fila:
		// dos anulaciones concurrentes no deben reponer stock dos veces.
		actual, err := s.repo.FindByIDForUpdateTx(tx, pedido.ID)
		if err != nil {
			return err
		}
		if actual.Estado == model.PedidoAnulado {
			return outcome.Violation("el pedido #%d ya está anulado", actual.Numero)
		}

		movs, err := s.movimientoRepo.ListByRefTx(tx, *model.PedidoRef(pedido.ID))
		if err != nil {
			return err
		}
		// Reversa: un ajuste opuesto por cada movimiento original. Los
		// originales quedan intactos en el libro.
		for i := range movs {
			_, err := s.inventario.AjustarTx(tx, AjusteStockInput{
				ProductoID: movs[i].ProductoID,
				Tipo:       model.MovimientoAjuste,
				Cantidad:   -movs[i].Cantidad,
				Ref:        model.PedidoRef(pedido.ID),
				Nota:       fmt.Sprintf("anulación pedido #%d", pedido.Numero),
			})
			if err != nil {
				return err
			}
		}
		return s.repo.UpdateEstadoTx(tx, pedido.ID, model.PedidoAnulado, &motivo)
	})
	if err != nil {
		return nil, err
	}

	pedido.Estado = model.PedidoAnulado
	pedido.MotivoAnulacion = &motivo
	return pedido, nil
}

func (s *pedidoService) Get(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) List(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		data = append(data, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	resp := &dto.PedidoResponse{
		ID:              p.ID.String(),
		Numero:          p.Numero,
		ClienteID:       p.ClienteID.String(),
		Tipo:            p.Tipo,
		Estado:          p.Estado,
		Total:           p.Total,
		MotivoAnulacion: p.MotivoAnulacion,
		CreatedAt:       p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.Cliente != nil {
		resp.Cliente = p.Cliente.Nombre
	}
	for i := range p.Items {
		item := &p.Items[i]
		ir := dto.ItemPedidoResponse{
			ProductoID:     item.ProductoID.String(),
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		}
		if item.Producto != nil {
			ir.Producto = item.Producto.Nombre
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
