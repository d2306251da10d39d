package database

import (
	"fmt"

	"hvacdesk-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Money column types (NUMERIC(12,2))
// - Composite indexes (payments, service records, invoices)
// - CHECK constraints (payment amount > 0, non-negative item amounts)
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.Company{},
			&models.User{},
			&models.Contact{},
			&models.Equipment{},
			&models.Job{},
			&models.Estimate{},
			&models.EstimateItem{},
			&models.Invoice{},
			&models.InvoiceItem{},
			&models.PaymentTransaction{},
			&models.ServiceRecord{},
			&models.InvoiceSettings{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE invoices        ALTER COLUMN subtotal_amount  TYPE numeric(12,2)`,
			`ALTER TABLE invoices        ALTER COLUMN tax_amount       TYPE numeric(12,2)`,
			`ALTER TABLE invoices        ALTER COLUMN discount_amount  TYPE numeric(12,2)`,
			`ALTER TABLE invoices        ALTER COLUMN total_amount     TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items   ALTER COLUMN unit_price       TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items   ALTER COLUMN amount           TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items   ALTER COLUMN tax_amount       TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items   ALTER COLUMN discount_amount  TYPE numeric(12,2)`,
			`ALTER TABLE estimates       ALTER COLUMN subtotal_amount  TYPE numeric(12,2)`,
			`ALTER TABLE estimates       ALTER COLUMN tax_amount       TYPE numeric(12,2)`,
			`ALTER TABLE estimates       ALTER COLUMN discount_amount  TYPE numeric(12,2)`,
			`ALTER TABLE estimates       ALTER COLUMN total_amount     TYPE numeric(12,2)`,
			`ALTER TABLE estimate_items  ALTER COLUMN unit_price       TYPE numeric(12,2)`,
			`ALTER TABLE estimate_items  ALTER COLUMN amount           TYPE numeric(12,2)`,
			`ALTER TABLE estimate_items  ALTER COLUMN tax_amount       TYPE numeric(12,2)`,
			`ALTER TABLE estimate_items  ALTER COLUMN discount_amount  TYPE numeric(12,2)`,
			`ALTER TABLE payment_transactions ALTER COLUMN amount      TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_payments_invoice_date ON payment_transactions (invoice_id, transaction_date)`,
			`CREATE INDEX IF NOT EXISTS idx_service_records_equipment_date ON service_records (equipment_id, service_date)`,
			`CREATE INDEX IF NOT EXISTS idx_invoices_company_issued ON invoices (company_id, date_issued)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Payments must be strictly positive; a zero or negative row would
			// corrupt the reconciliation sum.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payment_transactions'::regclass
					  AND conname  = 'chk_payments_amount_positive'
				) THEN
					ALTER TABLE payment_transactions
					ADD CONSTRAINT chk_payments_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
			// Invoice totals never negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_total_nonneg'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_total_nonneg
					CHECK (total_amount >= 0);
				END IF;
			END $$;`,
			// Invoice items: amount >= 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_items'::regclass
					  AND conname  = 'chk_invoice_items_amount_nonneg'
				) THEN
					ALTER TABLE invoice_items
					ADD CONSTRAINT chk_invoice_items_amount_nonneg
					CHECK (amount >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
