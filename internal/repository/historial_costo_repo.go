package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/model"
)

type HistorialCostoRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistorialCosto) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, limit int) ([]model.HistorialCosto, error)
}

type historialCostoRepo struct{ db *gorm.DB }

func NewHistorialCostoRepository(db *gorm.DB) HistorialCostoRepository {
	return &historialCostoRepo{db: db}
}

func (r *historialCostoRepo) CreateTx(tx *gorm.DB, h *model.HistorialCosto) error {
	return tx.Create(h).Error
}

func (r *historialCostoRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, limit int) ([]model.HistorialCosto, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var historial []model.HistorialCosto
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at DESC").Limit(limit).
		Find(&historial).Error
	return historial, err
}
