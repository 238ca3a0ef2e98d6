package infra

import (
	"fmt"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx. Unique violations
// are translated to gorm.ErrDuplicatedKey so services can report Conflict.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
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

	return db, nil
}

// RunMigrations creates / updates all tables, then applies the idempotent
// SQL patches that GORM cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Gimnasio{},
		&model.Administrador{},
		&model.Colaborador{},
		&model.Membresia{},
		&model.Cliente{},
		&model.Proveedor{},
		&model.Producto{},
		&model.VentaProducto{},
		&model.MovimientoStock{},
		&model.Nota{},
		&model.EventoCalendario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own (partial indexes, CHECK constraints). Each statement uses
// IF NOT EXISTS semantics so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Only one Activo client per (email, gym).
		{"uniq active client email", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_clientes_email_activo
    ON clientes (gym_id, LOWER(email))
    WHERE estado = 'Activo'`},
		// Barcodes are optional but unique inside a gym when present.
		{"uniq product barcode", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_productos_gym_barcode
    ON productos (gym_id, codigo_barras)
    WHERE codigo_barras <> ''`},
		{"uniq supplier email", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_proveedores_gym_email
    ON proveedores (gym_id, email)
    WHERE email <> ''`},
		{"stock non negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock_no_negativo') THEN
    ALTER TABLE productos ADD CONSTRAINT chk_productos_stock_no_negativo
      CHECK (stock_cantidad >= 0 AND ventas_obtenidas >= 0);
  END IF;
END $$`},
		{"membership counters non negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_membresias_contadores') THEN
    ALTER TABLE membresias ADD CONSTRAINT chk_membresias_contadores
      CHECK (cantidad_usuarios >= 0 AND porcentaje_uso BETWEEN 0 AND 100);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
