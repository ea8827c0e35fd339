package infra

import (
	"fmt"

	"github.com/Marcos-ViniciusDEV/PDV/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs
// AutoMigrate for the terminal's tables, then applies the idempotent SQL
// patches that GORM cannot express (partial indexes, counter seeding).
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
	// One process owns this store; a small pool is plenty.
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Operator{},
		&model.CaixaSession{},
		&model.CashMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.SalePayment{},
		&model.Counter{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// Safe to re-run on an already-patched schema.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One OPEN session per operator, enforced at the storage layer to
		// close the race between the service-level check and the insert.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_caixa_sessions_open_operator') THEN
		    CREATE UNIQUE INDEX uniq_caixa_sessions_open_operator
		        ON caixa_sessions (operator_id)
		        WHERE status = 'OPEN';
		  END IF;
		END $$`,
		// Partial indexes for the sync cycle's pending scans.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sales_sync_pending') THEN
		    CREATE INDEX idx_sales_sync_pending
		        ON sales (created_at)
		        WHERE sync_status = 'pending';
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_movements_sync_pending') THEN
		    CREATE INDEX idx_cash_movements_sync_pending
		        ON cash_movements (created_at)
		        WHERE sync_status = 'pending';
		  END IF;
		END $$`,
		// Seed the fiscal sequences so the first reads never miss.
		`INSERT INTO counters (name, value, updated_at)
		 VALUES ('ccf', 0, NOW()), ('coo', 0, NOW()), ('crz', 0, NOW()), ('cro', 0, NOW())
		 ON CONFLICT (name) DO NOTHING`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
