package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
)

type NotaCreditoRepository interface {
	CreateTx(tx *gorm.DB, n *model.NotaCredito) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.NotaCredito, error)
	UpdateTx(tx *gorm.DB, n *model.NotaCredito) error
	List(ctx context.Context, filter dto.NotaCreditoFilter) ([]model.NotaCredito, int64, error)
	// AplicarPendientesDeCompraTx transiciona a aplicada toda nota pendiente
	// ligada a la compra, con la fecha de aplicación dada.
	AplicarPendientesDeCompraTx(tx *gorm.DB, compraID uuid.UUID, fecha time.Time) error
	// AplicarHuerfanasTx transiciona a aplicada toda nota pendiente del
	// proveedor que no esté ligada a ninguna factura.
	AplicarHuerfanasTx(tx *gorm.DB, proveedorID uuid.UUID, fecha time.Time) error
	DB() *gorm.DB
}

type notaCreditoRepo struct{ db *gorm.DB }

func NewNotaCreditoRepository(db *gorm.DB) NotaCreditoRepository {
	return &notaCreditoRepo{db: db}
}

func (r *notaCreditoRepo) DB() *gorm.DB { return r.db }

func (r *notaCreditoRepo) CreateTx(tx *gorm.DB, n *model.NotaCredito) error {
	return tx.Create(n).Error
}

func (r *notaCreditoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.NotaCredito, error) {
	var n model.NotaCredito
	err := r.db.WithContext(ctx).Preload("Compra").Preload("Proveedor").First(&n, id).Error
	return &n, err
}

func (r *notaCreditoRepo) UpdateTx(tx *gorm.DB, n *model.NotaCredito) error {
	return tx.Save(n).Error
}

func (r *notaCreditoRepo) List(ctx context.Context, filter dto.NotaCreditoFilter) ([]model.NotaCredito, int64, error) {
	var notas []model.NotaCredito
	var total int64

	q := r.db.WithContext(ctx).Model(&model.NotaCredito{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
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

	err := q.Preload("Proveedor").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&notas).Error
	return notas, total, err
}

func (r *notaCreditoRepo) AplicarPendientesDeCompraTx(tx *gorm.DB, compraID uuid.UUID, fecha time.Time) error {
	return tx.Model(&model.NotaCredito{}).
		Where("compra_id = ? AND estado = ?", compraID, model.NotaCreditoPendiente).
		Updates(map[string]interface{}{
			"estado":           model.NotaCreditoAplicada,
			"fecha_aplicacion": fecha,
		}).Error
}

func (r *notaCreditoRepo) AplicarHuerfanasTx(tx *gorm.DB, proveedorID uuid.UUID, fecha time.Time) error {
	return tx.Model(&model.NotaCredito{}).
		Where("proveedor_id = ? AND compra_id IS NULL AND estado = ?", proveedorID, model.NotaCreditoPendiente).
		Updates(map[string]interface{}{
			"estado":           model.NotaCreditoAplicada,
			"fecha_aplicacion": fecha,
		}).Error
}
