package db

import (
	"papertrade/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil {
		return nil
	}
	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.Position{},
		&models.Trade{},
		&models.PortfolioSnapshot{},
	)
}
