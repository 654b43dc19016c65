package infra

import (
	"fmt"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection, migrates every table and applies
// the SQL patches AutoMigrate cannot express.
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

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Pais{},
		&model.Ciudad{},
		&model.Moneda{},
		&model.Remitente{},
		&model.Transportadora{},
		&model.Aduana{},
		&model.CRT{},
		&model.CRTGasto{},
		&model.MICGuardado{},
		&model.Usuario{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches is idempotent; every statement is guarded.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"crts estado check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_crts_estado') THEN
    ALTER TABLE crts ADD CONSTRAINT chk_crts_estado
      CHECK (estado IN ('BORRADOR','EMITIDO','EN_TRANSITO','ENTREGADO','FINALIZADO','CANCELADO'));
  END IF;
END $$`},
		{"crt_gastos position index",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_crt_gastos_posicion ON crt_gastos (crt_id, posicion)`},
		{"usuarios lower(email) index",
			`CREATE INDEX IF NOT EXISTS idx_usuarios_email_lower ON usuarios (LOWER(email))`},
		{"crts carrier numbering index",
			`CREATE INDEX IF NOT EXISTS idx_crts_transportadora_numero ON crts (transportadora_id, numero_crt)`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
