package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/outcome"
	"github.com/hvilloria/simple-stock/internal/repository"
)

// AjusteStockInput describe un movimiento de stock a registrar. Cantidad es
// firmada: positiva entra mercadería, negativa sale.
type AjusteStockInput struct {
	ProductoID uuid.UUID
	Tipo       string // model.MovimientoCompra | MovimientoVenta | MovimientoAjuste
	Cantidad   int
	Ref        *model.DocRef
	Nota       string
}

// InventarioService es el único punto de escritura del libro de stock. Todo
// cambio de existencia, venga de un pedido, una compra o un ajuste manual,
// pasa por acá: se toma lock de la fila del producto, se proyecta el stock
// resultante, se apendea el movimiento y se reescribe stock_actual como la
// suma completa del libro.
type InventarioService interface {
	// Ajustar registra un ajuste manual en su propia transacción.
	Ajustar(ctx context.Context, input AjusteStockInput) outcome.Outcome[*dto.MovimientoResponse]
	// AjustarTx registra un movimiento dentro de una transacción en curso.
	// Lo usan los orquestadores de pedidos y compras.
	AjustarTx(tx *gorm.DB, input AjusteStockInput) (*model.MovimientoStock, error)
	ListMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
) InventarioService {
	return &inventarioService{
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
	}
}

func (s *inventarioService) AjustarTx(tx *gorm.DB, input AjusteStockInput) (*model.MovimientoStock, error) {
	if input.Cantidad == 0 {
		return nil, outcome.Violation("la cantidad del movimiento no puede ser cero")
	}

	p, err := s.productoRepo.FindByIDForUpdateTx(tx, input.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto %s: %w", input.ProductoID, err)
	}

	proyectado := p.StockActual + input.Cantidad
	if proyectado < 0 {
		return nil, outcome.Violation(
			"stock insuficiente de %s: hay %d y se intentó descontar %d",
			p.Nombre, p.StockActual, -input.Cantidad,
		)
	}

	mov := &model.MovimientoStock{
		ProductoID:    p.ID,
		Tipo:          input.Tipo,
		Cantidad:      input.Cantidad,
		StockAnterior: p.StockActual,
		StockNuevo:    proyectado,
		Nota:          input.Nota,
	}
	mov.SetRef(input.Ref)

	if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
		return nil, err
	}

	// stock_actual se reescribe como la suma completa del libro, no como un
	// incremento: si el valor derivado se desvió alguna vez, acá se corrige.
	if _, err := s.productoRepo.RecalcularStockTx(tx, p.ID); err != nil {
		return nil, err
	}
	return mov, nil
}

func (s *inventarioService) Ajustar(ctx context.Context, input AjusteStockInput) outcome.Outcome[*dto.MovimientoResponse] {
	var mov *model.MovimientoStock
	err := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.AjustarTx(tx, input)
		return err
	})
	if err != nil {
		return outcome.Resolve[*dto.MovimientoResponse]("ajustar_stock", err)
	}
	return outcome.Ok(movimientoToResponse(mov))
}

func (s *inventarioService) ListMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	repoFilter := repository.MovimientoStockFilter{
		Tipo:  filter.Tipo,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.ProductoID != "" {
		pid, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		repoFilter.ProductoID = &pid
	}

	movs, total, err := s.movimientoRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		data = append(data, *movimientoToResponse(&movs[i]))
	}
	return &dto.MovimientoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func movimientoToResponse(m *model.MovimientoStock) *dto.MovimientoResponse {
	resp := &dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Nota:          m.Nota,
		RefTipo:       m.RefTipo,
		CreatedAt:     m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if m.RefID != nil {
		id := m.RefID.String()
		resp.RefID = &id
	}
	if m.Producto != nil {
		resp.Producto = m.Producto.Nombre
	}
	return resp
}
