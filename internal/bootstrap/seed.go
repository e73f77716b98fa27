package bootstrap

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"anoa.com/inventorybackend/internal/entity"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.OtpLog{},
		&entity.Category{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []entity.Role{
		{Name: entity.RoleAdmin, Description: "Super administrator"},
		{Name: entity.RoleEmployee, Description: "Warehouse employee"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&entity.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates the initial admin account. Admin accounts cannot
// be self-registered, so this is the only way one comes into existence.
func SeedAdminUser(db *gorm.DB) error {
	var adminRole entity.Role
	if err := db.Where("name = ?", entity.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@inventory.local"
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Email:           email,
		Phone:           "0000000000",
		PasswordHash:    string(hashedPasswordBytes),
		FullName:        "Administrator",
		RoleID:          &adminRole.ID,
		IsActive:        true,
		IsEmailVerified: true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user seeded successfully (%s)", email)

	return nil
}
