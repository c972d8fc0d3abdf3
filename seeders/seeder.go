package seeders

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/utils"
)

// defaultPermissions mirrors the per-entity actions the API checks.
var defaultPermissions = map[string]string{
	"view_user":       "View user",
	"create_table":    "Create table",
	"list_table":      "List table",
	"view_table":      "View table",
	"change_table":    "Change table",
	"create_category": "Create category",
	"list_category":   "List category",
	"view_category":   "View category",
	"change_category": "Change category",
	"create_product":  "Create product",
	"list_product":    "List product",
	"view_product":    "View product",
	"change_product":  "Change product",
	"create_order":    "Create order",
	"list_order":      "List orders",
	"view_order":      "View order",
	"change_order":    "Update order",
	"create_payment":  "Create payment",
	"list_payment":    "List payment",
	"view_payment":    "View payment",
	"change_payment":  "Change payment",
}

var defaultGroups = []string{"Orders", "Payments", "Tables"}

// Seed creates the default permissions, groups, and the initial superuser.
// Safe to run on every startup.
func Seed(db *gorm.DB) error {
	for codename, name := range defaultPermissions {
		permission := models.Permission{Codename: codename, Name: name}
		if err := db.Where("codename = ?", codename).FirstOrCreate(&permission).Error; err != nil {
			return err
		}
	}

	for _, name := range defaultGroups {
		group := models.Group{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&group).Error; err != nil {
			return err
		}
	}

	var admins int64
	if err := db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&admins).Error; err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin1234"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:    "admin",
		Email:       "admin@tablepos.local",
		Password:    string(hashed),
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	utils.InfoLogger.Printf("Seeded initial superuser %s", admin.Username)
	return nil
}
