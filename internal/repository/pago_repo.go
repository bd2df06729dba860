package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/dto"
	"github.com/hvilloria/simple-stock/internal/model"
)

type PagoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Pago) error
	List(ctx context.Context, filter dto.PagoFilter) ([]model.Pago, int64, error)
	// SumByCliente suma los pagos registrados del cliente (insumo del saldo
	// derivado).
	SumByCliente(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error)
	DB() *gorm.DB
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) DB() *gorm.DB { return r.db }

func (r *pagoRepo) CreateTx(tx *gorm.DB, p *model.Pago) error {
	return tx.Create(p).Error
}

func (r *pagoRepo) List(ctx context.Context, filter dto.PagoFilter) ([]model.Pago, int64, error) {
	var pagos []model.Pago
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pago{})
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Metodo != "" {
		q = q.Where("metodo = ?", filter.Metodo)
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

	err := q.Preload("Cliente").Order("fecha DESC").
		Offset(offset).Limit(limit).Find(&pagos).Error
	return pagos, total, err
}

func (r *pagoRepo) SumByCliente(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Pago{}).
		Where("cliente_id = ?", clienteID).
		Select("COALESCE(SUM(monto), 0)").Scan(&total).Error
	return total, err
}
