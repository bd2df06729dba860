package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/repository"
)

// Motivos de recálculo registrados en el historial de costos.
const (
	MotivoAltaCompra      = "alta_compra"
	MotivoAnulacionCompra = "anulacion_compra"
)

// CosteoService recalcula el costo promedio ponderado de un producto a partir
// de los renglones de compras detalladas no anuladas. El costo resultante se
// normaliza siempre a dólares: los renglones cargados en pesos se dividen por
// el tipo de cambio de su compra.
type CosteoService interface {
	// RecalcularCostoTx recalcula y persiste el costo dentro de una
	// transacción en curso. Si el producto no tiene compras vigentes, el
	// último costo conocido se conserva sin cambios.
	RecalcularCostoTx(tx *gorm.DB, productoID uuid.UUID, compraID *uuid.UUID, motivo string) error
}

type costeoService struct {
	productoRepo  repository.ProductoRepository
	compraRepo    repository.CompraRepository
	historialRepo repository.HistorialCostoRepository
}

func NewCosteoService(
	productoRepo repository.ProductoRepository,
	compraRepo repository.CompraRepository,
	historialRepo repository.HistorialCostoRepository,
) CosteoService {
	return &costeoService{
		productoRepo:  productoRepo,
		compraRepo:    compraRepo,
		historialRepo: historialRepo,
	}
}

func (s *costeoService) RecalcularCostoTx(tx *gorm.DB, productoID uuid.UUID, compraID *uuid.UUID, motivo string) error {
	items, err := s.compraRepo.ListItemsVigentesTx(tx, productoID)
	if err != nil {
		return err
	}
	// Sin compras vigentes (por ejemplo, se anuló la única compra) el último
	// costo conocido queda como referencia; no se pisa con cero.
	if len(items) == 0 {
		return nil
	}

	totalDolares := decimal.Zero
	totalCantidad := decimal.Zero
	for i := range items {
		item := &items[i]
		costo := item.CostoUnitario
		if item.Compra != nil {
			costo = model.ADolares(costo, item.Compra.Moneda, item.Compra.TipoCambio)
		}
		cantidad := decimal.NewFromInt(int64(item.Cantidad))
		totalDolares = totalDolares.Add(costo.Mul(cantidad))
		totalCantidad = totalCantidad.Add(cantidad)
	}
	if totalCantidad.IsZero() {
		return nil
	}
	nuevo := totalDolares.Div(totalCantidad).Round(4)

	p, err := s.productoRepo.FindByIDForUpdateTx(tx, productoID)
	if err != nil {
		return err
	}
	// El costo anterior se captura antes de actualizar: el repo puede devolver
	// el mismo struct que luego muta UpdateCostoTx.
	costoAntes := p.CostoUnitario
	if nuevo.Equal(costoAntes) {
		return nil
	}

	if err := s.productoRepo.UpdateCostoTx(tx, productoID, nuevo); err != nil {
		return err
	}
	return s.historialRepo.CreateTx(tx, &model.HistorialCosto{
		ProductoID:   productoID,
		CostoAntes:   costoAntes,
		CostoDespues: nuevo,
		Moneda:       model.MonedaDolar,
		CompraID:     compraID,
		Motivo:       motivo,
	})
}
