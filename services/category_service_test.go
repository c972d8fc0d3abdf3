package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/storage"
	"github.com/bluewave/tablepos/utils"
)

func TestCreateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, storage.NewMemoryStore())
	user := seedUser(t, db, true)

	category, err := svc.Create(user, CategoryFields{Name: "  Hot   Drinks "})
	assert.NoError(t, err)
	assert.Equal(t, "Hot Drinks", category.Name, "surrounding and repeated spaces are cleaned")
	assert.True(t, category.IsActive)

	_, err = svc.Create(user, CategoryFields{Name: "Hot Drinks"})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "name", vErr.Field)

	_, err = svc.Create(user, CategoryFields{Name: "   "})
	vErr, ok = utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "name", vErr.Field)
}

func TestUpdateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, storage.NewMemoryStore())
	user := seedUser(t, db, true)

	category, err := svc.Create(user, CategoryFields{Name: "Drinks"})
	assert.NoError(t, err)

	name := "Cold Drinks"
	inactive := false
	updated, err := svc.Update(user, category.ID, CategoryPatch{Name: &name, IsActive: &inactive})
	assert.NoError(t, err)
	assert.Equal(t, "Cold Drinks", updated.Name)
	assert.False(t, updated.IsActive)
}

func TestUpdateCategoryInFlight(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, storage.NewMemoryStore())
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)
	seedOrder(t, db, table, product, 1, models.OrderStatusPending)

	name := "Renamed"
	_, err := svc.Update(user, product.CategoryID, CategoryPatch{Name: &name})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "category", vErr.Field)
}

func TestUpdateCategoryReplacesImage(t *testing.T) {
	db := setupTestDB(t)
	images := storage.NewMemoryStore()
	svc := NewCategoryService(db, images)
	user := seedUser(t, db, true)

	_, err := images.Store(context.Background(), "categories/old.png", strings.NewReader("png"), "image/png")
	assert.NoError(t, err)

	category, err := svc.Create(user, CategoryFields{Name: "Drinks", Image: "categories/old.png"})
	assert.NoError(t, err)

	image := "categories/new.png"
	updated, err := svc.Update(user, category.ID, CategoryPatch{Image: &image})
	assert.NoError(t, err)
	assert.Equal(t, "categories/new.png", updated.Image)
	assert.Contains(t, images.Deleted, "categories/old.png", "replaced image is cleaned up")
}

func TestDeleteCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, storage.NewMemoryStore())
	product := seedCatalog(t, db, "Espresso", 500, true)

	err := svc.Delete(product.CategoryID)
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "category", vErr.Field)

	assert.NoError(t, db.Delete(&models.Product{}, product.ID).Error)
	assert.NoError(t, svc.Delete(product.CategoryID))

	assert.ErrorIs(t, svc.Delete(product.CategoryID), utils.ErrNotFound)
}

func TestListCategories(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, storage.NewMemoryStore())
	user := seedUser(t, db, true)

	_, err := svc.Create(user, CategoryFields{Name: "Drinks"})
	assert.NoError(t, err)
	snacks, err := svc.Create(user, CategoryFields{Name: "Snacks"})
	assert.NoError(t, err)

	inactive := false
	_, err = svc.Update(user, snacks.ID, CategoryPatch{IsActive: &inactive})
	assert.NoError(t, err)

	categories, err := svc.List("all")
	assert.NoError(t, err)
	assert.Len(t, categories, 2)

	categories, err = svc.List("actives")
	assert.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, "Drinks", categories[0].Name)
}
