package database

import (
	"endurance-api/internal/common/models"
	"endurance-api/internal/pkg/logger"
	"fmt"
)

func (db *Database) RunMigrations() error {
	logger.Info.Println("Starting database migrations...")

	if err := db.createExtensions(); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	// Define models in dependency order
	entities := []interface{}{
		&models.Plan{},
		&models.Coupon{},
		&models.User{},
		&models.Transaction{},
	}

	for _, entity := range entities {
		logger.Info.Printf("Migrating model: %T", entity)
		if err := db.AutoMigrate(entity); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", entity, err)
		}
	}

	if err := db.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	if err := db.createTriggers(); err != nil {
		return fmt.Errorf("failed to create triggers: %w", err)
	}

	logger.Info.Println("Database migrations completed successfully")
	return nil
}

func (db *Database) createExtensions() error {
	if db.Config.Driver != POSTGRES {
		return nil
	}
	query := `CREATE EXTENSION IF NOT EXISTS "pgcrypto";`
	return db.Exec(query).Error
}

func (db *Database) createIndexes() error {
	if db.Config.Driver != POSTGRES {
		return nil
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_cpf ON users(cpf);`,
		`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_expires_at ON transactions(expires_at);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_payment_method ON transactions(payment_method);`,

		`CREATE INDEX IF NOT EXISTS idx_coupons_active ON coupons(active);`,
	}

	for _, query := range indexes {
		if err := db.Exec(query).Error; err != nil {
			logger.Error.Printf("Error creating index: %s, Error: %v", query, err)
			return err
		}
	}

	return nil
}

func (db *Database) createTriggers() error {
	if db.Config.Driver != POSTGRES {
		return nil
	}

	triggerFunction := `
	CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ language 'plpgsql';`

	if err := db.Exec(triggerFunction).Error; err != nil {
		return err
	}

	tables := []string{
		"plans",
		"coupons",
		"users",
		"transactions",
	}

	for _, table := range tables {
		triggerQuery := fmt.Sprintf(`
		DROP TRIGGER IF EXISTS update_%s_updated_at ON %s;
		CREATE TRIGGER update_%s_updated_at
		BEFORE UPDATE ON %s
		FOR EACH ROW EXECUTE PROCEDURE update_updated_at_column();`,
			table, table, table, table)

		if err := db.Exec(triggerQuery).Error; err != nil {
			logger.Error.Printf("Error creating trigger for table %s: %v", table, err)
			return err
		}
	}

	return nil
}
