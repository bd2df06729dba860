package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hvilloria/simple-stock/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create or update all tables.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against
// containerized Postgres.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Proveedor{},
		&model.ContactoProveedor{},
		&model.Cliente{},
		&model.Producto{},
		&model.MovimientoStock{},
		&model.HistorialCosto{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.Compra{},
		&model.CompraItem{},
		&model.NotaCredito{},
		&model.Pago{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	// Secuencia de numeración de pedidos; AutoMigrate no crea secuencias
	// sueltas.
	return db.Exec(`CREATE SEQUENCE IF NOT EXISTS pedidos_numero_seq START 1`).Error
}
