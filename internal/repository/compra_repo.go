package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
)

type CompraRepository interface {
	CreateTx(tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	// FindByIDForUpdateTx relee la compra con lock de fila para que las
	// transiciones de estado concurrentes se serialicen.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error)
	UpdateTx(tx *gorm.DB, c *model.Compra) error
	List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error)
	// ListPendientesVencidas devuelve las facturas simples pendientes del
	// proveedor con vencimiento hasta la fecha dada inclusive.
	ListPendientesVencidas(ctx context.Context, proveedorID uuid.UUID, hasta time.Time) ([]model.Compra, error)
	// ListItemsVigentesTx devuelve los renglones de compras detalladas no
	// anuladas de un producto, con la compra cargada para conocer moneda y
	// tipo de cambio. Es la base del recálculo de costo promedio.
	ListItemsVigentesTx(tx *gorm.DB, productoID uuid.UUID) ([]model.CompraItem, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Preload("Items.Producto").Preload("Proveedor").First(&c, id).Error
	return &c, err
}

func (r *compraRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Items").First(&c, id).Error
	return &c, err
}

func (r *compraRepo) UpdateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Save(c).Error
}

func (r *compraRepo) List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Modo != "" {
		q = q.Where("modo = ?", filter.Modo)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	// Orden de prioridad de cuentas a pagar: pendientes primero, sin
	// vencimiento al final, vencimiento ascendente. Mismo criterio que
	// model.OrdenarPorPrioridad.
	err := q.Preload("Proveedor").
		Order("(estado <> 'pendiente') ASC").
		Order("(fecha_vencimiento IS NULL) ASC").
		Order("fecha_vencimiento ASC").
		Offset(offset).Limit(limit).
		Find(&compras).Error
	return compras, total, err
}

func (r *compraRepo) ListPendientesVencidas(ctx context.Context, proveedorID uuid.UUID, hasta time.Time) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Where("proveedor_id = ? AND modo = ? AND estado = ? AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento <= ?",
			proveedorID, model.CompraModoSimple, model.CompraPendiente, hasta).
		Order("fecha_vencimiento ASC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) ListItemsVigentesTx(tx *gorm.DB, productoID uuid.UUID) ([]model.CompraItem, error) {
	var items []model.CompraItem
	err := tx.
		Joins("JOIN compras ON compras.id = compra_items.compra_id").
		Where("compra_items.producto_id = ? AND compras.estado <> ?", productoID, model.CompraAnulada).
		Preload("Compra").
		Order("compra_items.created_at ASC").
		Find(&items).Error
	return items, err
}
