package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/repository"
)

// cachePrecioTTL acota el desfasaje del mostrador ante cambios de precio.
const cachePrecioTTL = 5 * time.Minute

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	// ObtenerPorSKU resuelve la consulta de precios del mostrador; cachea en
	// Redis con TTL corto porque es la ruta más golpeada del sistema.
	ObtenerPorSKU(ctx context.Context, sku string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	HistorialCostos(ctx context.Context, id uuid.UUID, limit int) ([]dto.HistorialCostoResponse, error)
}

type productoService struct {
	repo          repository.ProductoRepository
	historialRepo repository.HistorialCostoRepository
	rdb           *redis.Client // nil = cache deshabilitado
}

func NewProductoService(
	repo repository.ProductoRepository,
	historialRepo repository.HistorialCostoRepository,
	rdb *redis.Client,
) ProductoService {
	return &productoService{repo: repo, historialRepo: historialRepo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, fmt.Errorf("ya existe un producto con SKU %s", req.SKU)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	proveedorID, err := parseUUIDOpcional(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}

	p := &model.Producto{
		SKU:         req.SKU,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Rubro:       req.Rubro,
		StockMinimo: req.StockMinimo,
		PrecioVenta: req.PrecioVenta,
		ProveedorID: proveedorID,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorSKU(ctx context.Context, sku string) (*dto.ProductoResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKeyProducto(sku)).Bytes(); err == nil {
			var resp dto.ProductoResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(p)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKeyProducto(sku), data, cachePrecioTTL).Err(); err != nil {
				log.Warn().Err(err).Str("sku", sku).Msg("no se pudo cachear el producto")
			}
		}
	}
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	proveedorID, err := parseUUIDOpcional(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}

	p.Nombre = req.Nombre
	p.Descripcion = req.Descripcion
	p.Rubro = req.Rubro
	p.PrecioVenta = req.PrecioVenta
	p.StockMinimo = req.StockMinimo
	p.ProveedorID = proveedorID

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx, p.SKU)
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarCache(ctx, p.SKU)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) HistorialCostos(ctx context.Context, id uuid.UUID, limit int) ([]dto.HistorialCostoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	historial, err := s.historialRepo.ListByProducto(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.HistorialCostoResponse, 0, len(historial))
	for i := range historial {
		h := &historial[i]
		entry := dto.HistorialCostoResponse{
			ID:           h.ID.String(),
			CostoAntes:   h.CostoAntes,
			CostoDespues: h.CostoDespues,
			Moneda:       h.Moneda,
			Motivo:       h.Motivo,
			CreatedAt:    h.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if h.CompraID != nil {
			id := h.CompraID.String()
			entry.CompraID = &id
		}
		resp = append(resp, entry)
	}
	return resp, nil
}

func (s *productoService) invalidarCache(ctx context.Context, sku string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKeyProducto(sku)).Err(); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("no se pudo invalidar el cache del producto")
	}
}

func cacheKeyProducto(sku string) string { return "producto:sku:" + sku }

func parseUUIDOpcional(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Nombre:        p.Nombre,
		Descripcion:   p.Descripcion,
		Rubro:         p.Rubro,
		StockActual:   p.StockActual,
		StockMinimo:   p.StockMinimo,
		CostoUnitario: p.CostoUnitario,
		CostoMoneda:   p.CostoMoneda,
		PrecioVenta:   p.PrecioVenta,
		Activo:        p.Activo,
	}
	if p.ProveedorID != nil {
		id := p.ProveedorID.String()
		resp.ProveedorID = &id
	}
	return resp
}
