package seed

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/models"
)

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// It runs once at process start and is idempotent: an existing account is
// left untouched.
func EnsureAdmin(db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	var existing models.User
	err := db.Where("email = ?", cfg.SeedAdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := models.User{
		Email:     cfg.SeedAdminEmail,
		FirstName: "Admin",
		LastName:  "User",
		Role:      models.RoleAdmin,
	}
	if err := admin.SetPassword(cfg.SeedAdminPassword); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("seeded admin user", zap.String("email", admin.Email))
	return nil
}
