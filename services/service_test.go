package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/utils"
)

// setupTestDB opens a fresh in-memory database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.Group{},
		&models.Table{},
		&models.Category{},
		&models.Product{},
		&models.Payment{},
		&models.Order{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, active bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: fmt.Sprintf("waiter-%v", active),
		Email:    fmt.Sprintf("waiter-%v@tablepos.local", active),
		Password: "x",
		IsActive: active,
		IsStaff:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	// default:true makes gorm drop the zero value on insert.
	if !active {
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate user: %v", err)
		}
	}
	return user
}

func seedTable(t *testing.T, db *gorm.DB, code string, active bool) *models.Table {
	t.Helper()
	table := &models.Table{Code: code, IsActive: active}
	if err := db.Create(table).Error; err != nil {
		t.Fatalf("failed to seed table: %v", err)
	}
	if !active {
		if err := db.Model(table).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate table: %v", err)
		}
	}
	return table
}

func seedCatalog(t *testing.T, db *gorm.DB, name string, price int, active bool) *models.Product {
	t.Helper()

	category := &models.Category{Name: "Category for " + name, IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	product := &models.Product{
		Name:       name,
		Price:      price,
		IsActive:   active,
		CategoryID: category.ID,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	if !active {
		if err := db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate product: %v", err)
		}
	}
	return product
}

func seedOrder(t *testing.T, db *gorm.DB, table *models.Table, product *models.Product, quantity int, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		Code:      utils.GenerateRandomCode(models.OrderCodeLength),
		TableID:   table.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		Status:    status,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}
