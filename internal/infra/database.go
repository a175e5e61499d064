package infra

import (
	"fmt"

	"syapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, CHECK constraints on existing DBs, etc.).
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

// RunMigrations creates / updates the schema. Also used by the e2e suite to
// prepare throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Employee{},
		&model.Shift{},
		&model.Sale{},
		&model.DeliveryAssignment{},
		&model.DeliveryReturn{},
		&model.EmployeeDebt{},
		&model.CashMovement{},
		&model.CashSnapshot{},
		&model.CashCut{},
		&model.DeviceToken{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// express. Each statement uses IF NOT EXISTS / DO NOTHING semantics so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open shift per employee. AutoMigrate cannot create
		// partial indexes, and without this two concurrent opens that both
		// miss the pre-check would each land a row.
		{"unique open shift per employee", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'ux_shifts_open_employee') THEN
    CREATE UNIQUE INDEX ux_shifts_open_employee
        ON shifts (tenant_id, employee_id)
        WHERE is_open;
  END IF;
END $$`},
		// Serves the stale-snapshot sweep and the branch dashboard query.
		{"stale snapshots partial index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_snapshots_stale') THEN
    CREATE INDEX idx_snapshots_stale
        ON cash_snapshots (tenant_id, branch_id)
        WHERE needs_recalculation AND NOT frozen;
  END IF;
END $$`},
		// Pending-assignments listing for the repartidores board.
		{"pending assignments partial index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_assignments_pending') THEN
    CREATE INDEX idx_assignments_pending
        ON delivery_assignments (tenant_id, employee_id)
        WHERE status = 'pending';
  END IF;
END $$`},
		// Outstanding-debt listing; settled debts dominate over time.
		{"unsettled debts partial index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_debts_unsettled') THEN
    CREATE INDEX idx_debts_unsettled
        ON employee_debts (tenant_id, employee_id)
        WHERE status <> 'pagado';
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
