package db

import (
	"github.com/kraakman/autoservice-backend/config"
	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"github.com/kraakman/autoservice-backend/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs database migrations and seeds the admin account.
func Migrate(database *gorm.DB, cfg *config.Config) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Car{},
		&model.CarImage{},
		&model.ReviewSummary{},
		&model.GoogleReview{},
		&model.ReviewSyncLog{},
	}

	if err := database.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedAdminUser(database, cfg); err != nil {
		logger.Error("Failed to seed admin user during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedAdminUser creates the admin account from config when no user exists yet.
func seedAdminUser(database *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn("Admin credentials not configured, skipping admin seed")
		return nil
	}

	var count int64
	if err := database.Model(&model.User{}).Where("email = ?", cfg.Admin.Email).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Debug("Admin user already exists, skipping...", map[string]interface{}{
			"email": cfg.Admin.Email,
		})
		return nil
	}

	hash, err := util.HashPassword(cfg.Admin.Password, cfg.Admin.BcryptCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Name:         "Beheerder",
		Role:         model.RoleAdmin,
	}
	if err := database.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user seeded successfully", map[string]interface{}{
		"email": cfg.Admin.Email,
	})
	return nil
}
