package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/storage"
	"github.com/bluewave/tablepos/utils"
)

// CategoryService menangani katalog kategori produk.
type CategoryService struct {
	db     *gorm.DB
	images storage.ImageStore
}

func NewCategoryService(db *gorm.DB, images storage.ImageStore) *CategoryService {
	return &CategoryService{db: db, images: images}
}

// CategoryFields are the values accepted on category creation.
type CategoryFields struct {
	Name  string
	Image string
}

// CategoryPatch carries the updatable fields of a category.
type CategoryPatch struct {
	Name     *string
	Image    *string
	IsActive *bool
}

func cleanSpaces(content string) string {
	return strings.Join(strings.Fields(content), " ")
}

func (s *CategoryService) validateName(name string, excludeID uint) (string, error) {
	name = cleanSpaces(name)
	if name == "" {
		return "", utils.NewValidationError("name", "Name can't be empty.")
	}

	var count int64
	query := s.db.Model(&models.Category{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", utils.NewValidationError("name", "Category with this name already exists.")
	}
	return name, nil
}

// Create registers a new category.
func (s *CategoryService) Create(user *models.User, fields CategoryFields) (*models.Category, error) {
	name, err := s.validateName(fields.Name, 0)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		IsActive:    true,
		Image:       fields.Image,
		CreatedByID: &user.ID,
		UpdatedByID: &user.ID,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Category %q created", category.Name)
	return category, nil
}

// Update edits a category. Blocked while any of its products is referenced
// by a non-closed order. When the image changes, the previous object is
// removed from the image store.
func (s *CategoryService) Update(user *models.User, categoryID uint, patch CategoryPatch) (*models.Category, error) {
	category, err := s.Get(categoryID)
	if err != nil {
		return nil, err
	}

	var open int64
	if err := s.db.Model(&models.Order{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.category_id = ? AND orders.is_closed = ?", category.ID, false).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, utils.NewValidationError("category",
			"This category cannot be edited because one of your products is currently in a pending transaction.")
	}

	existingImage := category.Image

	changed := map[string]interface{}{}
	if patch.Name != nil {
		name, err := s.validateName(*patch.Name, category.ID)
		if err != nil {
			return nil, err
		}
		if name != category.Name {
			category.Name = name
			changed["name"] = name
		}
	}
	if patch.Image != nil && *patch.Image != category.Image {
		category.Image = *patch.Image
		changed["image"] = category.Image
	}
	if patch.IsActive != nil && *patch.IsActive != category.IsActive {
		category.IsActive = *patch.IsActive
		changed["is_active"] = category.IsActive
	}

	if len(changed) == 0 {
		return category, nil
	}

	category.UpdatedByID = &user.ID
	changed["updated_by_id"] = user.ID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, ok := changed["image"]; ok && existingImage != "" {
			ctx := context.Background()
			if exists, err := s.images.Exists(ctx, existingImage); err == nil && exists {
				if err := s.images.Delete(ctx, existingImage); err != nil {
					return err
				}
			}
		}
		return tx.Model(category).Updates(changed).Error
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Get returns a category by id.
func (s *CategoryService) Get(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// List returns categories filtered by activation.
func (s *CategoryService) List(filterBy string) ([]models.Category, error) {
	query := s.db.Model(&models.Category{})
	switch filterBy {
	case "actives":
		query = query.Where("is_active = ?", true)
	case "inactives":
		query = query.Where("is_active = ?", false)
	}

	var categories []models.Category
	if err := query.Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Delete removes a category. Protected while products reference it.
func (s *CategoryService) Delete(categoryID uint) error {
	category, err := s.Get(categoryID)
	if err != nil {
		return err
	}

	var products int64
	if err := s.db.Model(&models.Product{}).
		Where("category_id = ?", category.ID).
		Count(&products).Error; err != nil {
		return err
	}
	if products > 0 {
		return utils.NewValidationError("category", "Cannot delete a category that still has products.")
	}

	return s.db.Delete(category).Error
}
