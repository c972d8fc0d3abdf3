package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/storage"
	"github.com/bluewave/tablepos/utils"
)

// ProductService menangani katalog produk.
type ProductService struct {
	db     *gorm.DB
	images storage.ImageStore
}

func NewProductService(db *gorm.DB, images storage.ImageStore) *ProductService {
	return &ProductService{db: db, images: images}
}

// ProductFields are the values accepted on product creation.
type ProductFields struct {
	Name        string
	Description string
	Price       int
	CategoryID  uint
	Image       string
}

// ProductPatch carries the updatable fields of a product.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *int
	CategoryID  *uint
	Image       *string
	IsActive    *bool
}

func validateProductPrice(price int) error {
	if price < models.MinPrice || price > models.MaxPrice {
		return utils.NewValidationError("price",
			fmt.Sprintf("The price of the product must be between $%s and $%s.",
				utils.CentsToDollar(models.MinPrice), utils.CentsToDollar(models.MaxPrice)))
	}
	return nil
}

func (s *ProductService) validateName(name string, excludeID uint) (string, error) {
	name = cleanSpaces(name)
	if name == "" {
		return "", utils.NewValidationError("name", "Name can't be empty.")
	}

	var count int64
	query := s.db.Model(&models.Product{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", utils.NewValidationError("name", "Product with this name already exists.")
	}
	return name, nil
}

// Create registers a new product under a category.
func (s *ProductService) Create(user *models.User, fields ProductFields) (*models.Product, error) {
	name, err := s.validateName(fields.Name, 0)
	if err != nil {
		return nil, err
	}
	if err := validateProductPrice(fields.Price); err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.First(&category, fields.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		Description: cleanSpaces(fields.Description),
		Price:       fields.Price,
		IsActive:    true,
		Image:       fields.Image,
		CategoryID:  category.ID,
		CreatedByID: &user.ID,
		UpdatedByID: &user.ID,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Product %q created (price=%s)", product.Name, utils.CentsToDollar(product.Price))
	return product, nil
}

// Update edits a product. Blocked while a non-closed order references it.
// When the image changes, the previous object is removed from the store.
func (s *ProductService) Update(user *models.User, productID uint, patch ProductPatch) (*models.Product, error) {
	product, err := s.Get(productID)
	if err != nil {
		return nil, err
	}

	var open int64
	if err := s.db.Model(&models.Order{}).
		Where("product_id = ? AND is_closed = ?", product.ID, false).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, utils.NewValidationError("product",
			"This product can't be edited because it is currently in a pending transaction.")
	}

	existingImage := product.Image

	changed := map[string]interface{}{}
	if patch.Name != nil {
		name, err := s.validateName(*patch.Name, product.ID)
		if err != nil {
			return nil, err
		}
		if name != product.Name {
			product.Name = name
			changed["name"] = name
		}
	}
	if patch.Description != nil {
		description := cleanSpaces(*patch.Description)
		if description != product.Description {
			product.Description = description
			changed["description"] = description
		}
	}
	if patch.Price != nil && *patch.Price != product.Price {
		if err := validateProductPrice(*patch.Price); err != nil {
			return nil, err
		}
		product.Price = *patch.Price
		changed["price"] = product.Price
	}
	if patch.CategoryID != nil && *patch.CategoryID != product.CategoryID {
		var category models.Category
		if err := s.db.First(&category, *patch.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.ErrNotFound
			}
			return nil, err
		}
		product.CategoryID = category.ID
		changed["category_id"] = product.CategoryID
	}
	if patch.Image != nil && *patch.Image != product.Image {
		product.Image = *patch.Image
		changed["image"] = product.Image
	}
	if patch.IsActive != nil && *patch.IsActive != product.IsActive {
		product.IsActive = *patch.IsActive
		changed["is_active"] = product.IsActive
	}

	if len(changed) == 0 {
		return product, nil
	}

	product.UpdatedByID = &user.ID
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
		return tx.Model(product).Updates(changed).Error
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Get returns a product by id.
func (s *ProductService) Get(productID uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ProductRow is a product joined with its category name and the quantity
// bounds the ordering UI must honor.
type ProductRow struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        int    `json:"price"`
	IsActive     bool   `json:"is_active"`
	Image        string `json:"image"`
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	MinQty       int    `json:"min_qty"`
	MaxQty       int    `json:"max_qty"`
}

// ListByCategory returns a category's products filtered by activation.
func (s *ProductService) ListByCategory(categoryID uint, filterBy string) ([]ProductRow, error) {
	query := s.db.Model(&models.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.category_id = ?", categoryID)

	switch filterBy {
	case "actives":
		query = query.Where("products.is_active = ?", true)
	case "inactives":
		query = query.Where("products.is_active = ?", false)
	}

	var rows []ProductRow
	err := query.
		Select("products.id, products.name, products.description, products.price, " +
			"products.is_active, products.image, products.category_id, " +
			"categories.name AS category_name").
		Order("products.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].MinQty = models.MinQuantity
		rows[i].MaxQty = models.MaxQuantity
	}
	return rows, nil
}

// List returns every product with its category preloaded.
func (s *ProductService) List() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Preload("Category").Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Delete removes a product. Protected while orders reference it.
func (s *ProductService) Delete(productID uint) error {
	product, err := s.Get(productID)
	if err != nil {
		return err
	}

	var orders int64
	if err := s.db.Model(&models.Order{}).
		Where("product_id = ?", product.ID).
		Count(&orders).Error; err != nil {
		return err
	}
	if orders > 0 {
		return utils.NewValidationError("product", "Cannot delete a product that has orders.")
	}

	return s.db.Delete(product).Error
}
